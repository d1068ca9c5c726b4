// Package server exposes the task manager over JSON/HTTP.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

const totalCountHeader = "X-Total-Count"

// TokenValidator checks bearer tokens and reports how long issued ones live.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	TTL() time.Duration
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type TaskAPI struct {
	httpSrv  *http.Server
	services *service.Services
	tokens   TokenValidator
	storage  Pinger
}

func NewTaskAPI(cfg config.ServerConfig, services *service.Services, tokens TokenValidator, storage Pinger) *TaskAPI {
	if services == nil || tokens == nil {
		return nil
	}

	api := &TaskAPI{
		httpSrv: &http.Server{
			Addr:              cfg.Address(),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		services: services,
		tokens:   tokens,
		storage:  storage,
	}
	api.configRoutes()

	return api
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	if api.httpSrv.Addr == "" {
		api.httpSrv.Addr = ":8080"
	}

	err := api.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskAPI) Handler() http.Handler {
	return api.httpSrv.Handler
}

func (api *TaskAPI) configRoutes() {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		RequestID(),
		AccessLog(),
		GzipRequestDecompress(),
		GzipResponseCompress(),
		Recovery(),
	)

	router.NoRoute(func(ctx *gin.Context) {
		writeError(ctx, errors.ErrNotFound)
	})
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Code: "METHOD_NOT_ALLOWED"})
	})

	router.GET("/", api.welcome)

	public := router.Group("/api")
	{
		public.POST("/login", api.login)
		public.POST("/users", api.createUser)
	}

	authed := router.Group("/api", RequireAuth(api.tokens))

	users := authed.Group("/users")
	{
		users.GET("", api.listUsers)
		users.GET("/:id", api.getUser)
		users.PUT("/:id", RequireOwner(api.services.Users), api.updateUser)
		users.DELETE("/:id", RequireOwner(api.services.Users), api.deleteUser)
	}

	statuses := authed.Group("/task_statuses")
	{
		statuses.GET("", api.listTaskStatuses)
		statuses.GET("/:id", api.getTaskStatus)
		statuses.POST("", api.createTaskStatus)
		statuses.PUT("/:id", api.updateTaskStatus)
		statuses.DELETE("/:id", api.deleteTaskStatus)
	}

	labels := authed.Group("/labels")
	{
		labels.GET("", api.listLabels)
		labels.GET("/:id", api.getLabel)
		labels.POST("", api.createLabel)
		labels.PUT("/:id", api.updateLabel)
		labels.DELETE("/:id", api.deleteLabel)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.GET("", api.listTasks)
		tasks.GET("/:id", api.getTask)
		tasks.POST("", api.createTask)
		tasks.PUT("/:id", api.updateTask)
		tasks.DELETE("/:id", api.deleteTask)
	}

	api.httpSrv.Handler = router
}

func (api *TaskAPI) welcome(ctx *gin.Context) {
	storage := "ok"
	status := http.StatusOK
	if api.storage != nil {
		if err := api.storage.Ping(ctx.Request.Context()); err != nil {
			storage = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	ctx.JSON(status, gin.H{"message": "Welcome to Task Manager", "storage": storage})
}

// writeCollection renders a list with its size in X-Total-Count.
func writeCollection[T any](ctx *gin.Context, items []T) {
	ctx.Header(totalCountHeader, strconv.Itoa(len(items)))
	ctx.JSON(http.StatusOK, items)
}
