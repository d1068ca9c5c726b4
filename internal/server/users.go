package server

import (
	"net/http"

	"taskmanager/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func (api *TaskAPI) listUsers(ctx *gin.Context) {
	users, err := api.services.Users.List(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeCollection(ctx, users)
}

func (api *TaskAPI) getUser(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	user, err := api.services.Users.Get(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (api *TaskAPI) createUser(ctx *gin.Context) {
	var req models.UserCreateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	user, err := api.services.Users.Create(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

func (api *TaskAPI) updateUser(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var req models.UserUpdateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	user, err := api.services.Users.Update(ctx.Request.Context(), id, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (api *TaskAPI) deleteUser(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if err := api.services.Users.Delete(ctx.Request.Context(), id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
