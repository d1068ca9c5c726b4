package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/service"
	storage "taskmanager/repository/inmemory"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestAPI(t testing.TB, pinger Pinger) *TaskAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	st := storage.NewStorage()
	if pinger == nil {
		pinger = st
	}
	services, err := service.New(st, auth.NewBcryptHasher(bcrypt.MinCost), tokens, "hexlet@example.com")
	require.NoError(t, err)

	api := NewTaskAPI(config.ServerConfig{Addr: "127.0.0.1", Port: 0}, services, tokens, pinger)
	require.NotNil(t, api)
	return api
}

func doJSON(t testing.TB, api *TaskAPI, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func register(t testing.TB, api *TaskAPI, email string) models.UserResponse {
	t.Helper()
	w := doJSON(t, api, http.MethodPost, "/api/users", map[string]any{
		"email": email, "firstName": "Jack", "lastName": "Jons", "password": "some-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.UserResponse](t, w)
}

func login(t testing.TB, api *TaskAPI, email string) string {
	t.Helper()
	w := doJSON(t, api, http.MethodPost, "/api/login", models.LoginRequest{Username: email, Password: "some-password"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.AuthResponse](t, w).Token
}

func TestWelcome(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		want    struct {
			statusCode int
			storage    string
		}
	}{
		{
			name: "storage reachable",
			want: struct {
				statusCode int
				storage    string
			}{statusCode: http.StatusOK, storage: "ok"},
		},
		{
			name:    "storage down",
			pingErr: errors.New("connection refused"),
			want: struct {
				statusCode int
				storage    string
			}{statusCode: http.StatusServiceUnavailable, storage: "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := &MockPinger{}
			pinger.On("Ping", mock.Anything).Return(tt.pingErr)
			api := newTestAPI(t, pinger)

			w := doJSON(t, api, http.MethodGet, "/", nil, "")

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Equal(t, tt.want.storage, decode[map[string]string](t, w)["storage"])
			pinger.AssertExpectations(t)
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t, nil)
	user := register(t, api, "jack@google.com")

	assert.Equal(t, "jack@google.com", user.Email)
	assert.Equal(t, "Jack", user.FirstName)
	assert.False(t, user.CreatedAt.IsZero())

	tests := []struct {
		name    string
		request any
		want    struct {
			statusCode int
			code       string
		}
	}{
		{
			name:    "correct credentials",
			request: models.LoginRequest{Username: "jack@google.com", Password: "some-password"},
			want: struct {
				statusCode int
				code       string
			}{statusCode: http.StatusOK},
		},
		{
			name:    "wrong password",
			request: models.LoginRequest{Username: "jack@google.com", Password: "nope"},
			want: struct {
				statusCode int
				code       string
			}{statusCode: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		},
		{
			name:    "unknown user",
			request: models.LoginRequest{Username: "ghost@google.com", Password: "some-password"},
			want: struct {
				statusCode int
				code       string
			}{statusCode: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		},
		{
			name:    "malformed body",
			request: "{not json",
			want: struct {
				statusCode int
				code       string
			}{statusCode: http.StatusBadRequest, code: "BAD_REQUEST"},
		},
		{
			name:    "missing password",
			request: map[string]string{"username": "jack@google.com"},
			want: struct {
				statusCode int
				code       string
			}{statusCode: http.StatusBadRequest, code: "VALIDATION_FAILED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, api, http.MethodPost, "/api/login", tt.request, "")

			assert.Equal(t, tt.want.statusCode, w.Code)
			if tt.want.code != "" {
				assert.Equal(t, tt.want.code, decode[errorResponse](t, w).Code)
				return
			}
			resp := decode[models.AuthResponse](t, w)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, "Jack", resp.FirstName)

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, tokenCookie, cookies[0].Name)
			assert.True(t, cookies[0].HttpOnly)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t, nil)
	register(t, api, "jack@google.com")

	tests := []struct {
		name    string
		request map[string]any
		want    struct {
			code  string
			field string
		}
	}{
		{
			name:    "bad email",
			request: map[string]any{"email": "not-an-email", "password": "secret"},
			want: struct {
				code  string
				field string
			}{code: "VALIDATION_FAILED", field: "email"},
		},
		{
			name:    "short password",
			request: map[string]any{"email": "a@b.com", "password": "ab"},
			want: struct {
				code  string
				field string
			}{code: "VALIDATION_FAILED", field: "password"},
		},
		{
			name:    "duplicate email",
			request: map[string]any{"email": "jack@google.com", "password": "secret"},
			want: struct {
				code  string
				field string
			}{code: "EMAIL_TAKEN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, api, http.MethodPost, "/api/users", tt.request, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[errorResponse](t, w)
			assert.Equal(t, tt.want.code, resp.Code)
			if tt.want.field != "" {
				assert.Contains(t, resp.Details, tt.want.field)
			}
		})
	}
}

func TestAuthentication(t *testing.T) {
	api := newTestAPI(t, nil)
	register(t, api, "jack@google.com")
	token := login(t, api, "jack@google.com")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: 1,
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "jack@google.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   struct {
			statusCode int
		}
	}{
		{name: "no token", want: struct{ statusCode int }{http.StatusUnauthorized}},
		{name: "garbage token", header: "Bearer garbage", want: struct{ statusCode int }{http.StatusUnauthorized}},
		{name: "expired token", header: "Bearer " + expired, want: struct{ statusCode int }{http.StatusUnauthorized}},
		{name: "wrong scheme", header: "Basic " + token, want: struct{ statusCode int }{http.StatusUnauthorized}},
		{name: "bearer token", header: "Bearer " + token, want: struct{ statusCode int }{http.StatusOK}},
		{name: "cookie token", cookie: token, want: struct{ statusCode int }{http.StatusOK}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: tokenCookie, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			api.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			if w.Code == http.StatusUnauthorized {
				assert.Equal(t, "UNAUTHORIZED", decode[errorResponse](t, w).Code)
			}
		})
	}
}

func TestUserOwnership(t *testing.T) {
	api := newTestAPI(t, nil)
	jack := register(t, api, "jack@google.com")
	jill := register(t, api, "jill@google.com")
	token := login(t, api, "jack@google.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   struct {
			statusCode int
		}
	}{
		{name: "update someone else", method: http.MethodPut, path: fmt.Sprintf("/api/users/%d", jill.ID), body: map[string]any{"firstName": "X"}, want: struct{ statusCode int }{http.StatusForbidden}},
		{name: "delete someone else", method: http.MethodDelete, path: fmt.Sprintf("/api/users/%d", jill.ID), want: struct{ statusCode int }{http.StatusForbidden}},
		{name: "update missing user", method: http.MethodPut, path: "/api/users/999", body: map[string]any{"firstName": "X"}, want: struct{ statusCode int }{http.StatusForbidden}},
		{name: "malformed id", method: http.MethodDelete, path: "/api/users/abc", want: struct{ statusCode int }{http.StatusBadRequest}},
		{name: "read someone else", method: http.MethodGet, path: fmt.Sprintf("/api/users/%d", jill.ID), want: struct{ statusCode int }{http.StatusOK}},
		{name: "update self", method: http.MethodPut, path: fmt.Sprintf("/api/users/%d", jack.ID), body: map[string]any{"firstName": "Jackie"}, want: struct{ statusCode int }{http.StatusOK}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, api, tt.method, tt.path, tt.body, token)
			assert.Equal(t, tt.want.statusCode, w.Code, w.Body.String())
		})
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		w := doJSON(t, api, http.MethodGet, fmt.Sprintf("/api/users/%d", jack.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[models.UserResponse](t, w)
		assert.Equal(t, "Jackie", got.FirstName)
		assert.Equal(t, "Jons", got.LastName)
		assert.Equal(t, "jack@google.com", got.Email)
	})

	t.Run("ownership survives an email change", func(t *testing.T) {
		self := fmt.Sprintf("/api/users/%d", jack.ID)
		w := doJSON(t, api, http.MethodPut, self, map[string]any{"email": "jackie@google.com"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// the token issued before the change still owns the account
		w = doJSON(t, api, http.MethodPut, self, map[string]any{"lastName": "Jonson"}, token)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// and gains nothing over whoever takes the vacated address
		newcomer := register(t, api, "jack@google.com")
		w = doJSON(t, api, http.MethodPut, fmt.Sprintf("/api/users/%d", newcomer.ID), map[string]any{"firstName": "X"}, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		w = doJSON(t, api, http.MethodDelete, fmt.Sprintf("/api/users/%d", newcomer.ID), nil, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete self", func(t *testing.T) {
		w := doJSON(t, api, http.MethodDelete, fmt.Sprintf("/api/users/%d", jack.ID), nil, token)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestTaskStatusEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	register(t, api, "jack@google.com")
	token := login(t, api, "jack@google.com")

	w := doJSON(t, api, http.MethodPost, "/api/task_statuses", map[string]string{"name": "Draft", "slug": "draft"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	draft := decode[models.TaskStatusResponse](t, w)

	w = doJSON(t, api, http.MethodPost, "/api/task_statuses", map[string]string{"name": "Other", "slug": "draft"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "STATUS_SLUG_TAKEN", decode[errorResponse](t, w).Code)

	w = doJSON(t, api, http.MethodGet, "/api/task_statuses", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(totalCountHeader))
	assert.Len(t, decode[[]models.TaskStatusResponse](t, w), 1)

	w = doJSON(t, api, http.MethodPut, fmt.Sprintf("/api/task_statuses/%d", draft.ID), map[string]string{"name": "Rough draft"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.TaskStatusResponse](t, w)
	assert.Equal(t, "Rough draft", updated.Name)
	assert.Equal(t, "draft", updated.Slug)

	w = doJSON(t, api, http.MethodPost, "/api/tasks", map[string]any{"title": "Write", "status": "draft"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, api, http.MethodDelete, fmt.Sprintf("/api/task_statuses/%d", draft.ID), nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "STATUS_HAS_TASKS", decode[errorResponse](t, w).Code)

	w = doJSON(t, api, http.MethodGet, "/api/task_statuses/999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TASK_STATUS_NOT_FOUND", decode[errorResponse](t, w).Code)
}

func TestLabelEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	register(t, api, "jack@google.com")
	token := login(t, api, "jack@google.com")

	w := doJSON(t, api, http.MethodPost, "/api/labels", map[string]string{"name": "ab"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorResponse](t, w).Details, "name")

	w = doJSON(t, api, http.MethodPost, "/api/labels", map[string]string{"name": "bug"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	bug := decode[models.LabelResponse](t, w)

	w = doJSON(t, api, http.MethodPost, "/api/labels", map[string]string{"name": "bug"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "LABEL_NAME_TAKEN", decode[errorResponse](t, w).Code)

	doJSON(t, api, http.MethodPost, "/api/task_statuses", map[string]string{"name": "Draft", "slug": "draft"}, token)
	w = doJSON(t, api, http.MethodPost, "/api/tasks", map[string]any{"title": "Fix", "status": "draft", "taskLabelIds": []int64{bug.ID}}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, api, http.MethodDelete, fmt.Sprintf("/api/labels/%d", bug.ID), nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "LABEL_HAS_TASKS", decode[errorResponse](t, w).Code)
}

func TestTaskEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	jack := register(t, api, "jack@google.com")
	token := login(t, api, "jack@google.com")

	doJSON(t, api, http.MethodPost, "/api/task_statuses", map[string]string{"name": "Draft", "slug": "draft"}, token)
	doJSON(t, api, http.MethodPost, "/api/task_statuses", map[string]string{"name": "Published", "slug": "published"}, token)
	a := decode[models.LabelResponse](t, doJSON(t, api, http.MethodPost, "/api/labels", map[string]string{"name": "aaa"}, token))
	b := decode[models.LabelResponse](t, doJSON(t, api, http.MethodPost, "/api/labels", map[string]string{"name": "bbb"}, token))
	c := decode[models.LabelResponse](t, doJSON(t, api, http.MethodPost, "/api/labels", map[string]string{"name": "ccc"}, token))

	w := doJSON(t, api, http.MethodPost, "/api/tasks", map[string]any{
		"index": 12, "title": "Fix login", "content": "soon", "status": "draft",
		"assignee_id": jack.ID, "taskLabelIds": []int64{b.ID, a.ID},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[models.TaskResponse](t, w)
	assert.Equal(t, "draft", task.Status)
	assert.Equal(t, []int64{a.ID, b.ID}, task.TaskLabelIDs)
	assert.Equal(t, &jack.ID, task.AssigneeID)

	w = doJSON(t, api, http.MethodPost, "/api/tasks", map[string]any{"title": "Docs", "status": "published"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	docs := decode[models.TaskResponse](t, w)
	assert.Equal(t, []int64{}, docs.TaskLabelIDs)
	assert.Nil(t, docs.AssigneeID)

	t.Run("rejected creates", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]any
			want struct {
				statusCode int
				code       string
			}
		}{
			{
				name: "status",
				body: map[string]any{"title": "X", "status": "nope"},
				want: struct {
					statusCode int
					code       string
				}{http.StatusNotFound, "TASK_STATUS_NOT_FOUND"},
			},
			{
				name: "assignee",
				body: map[string]any{"title": "X", "status": "draft", "assignee_id": 999},
				want: struct {
					statusCode int
					code       string
				}{http.StatusNotFound, "USER_NOT_FOUND"},
			},
			{
				name: "label",
				body: map[string]any{"title": "X", "status": "draft", "taskLabelIds": []int64{999}},
				want: struct {
					statusCode int
					code       string
				}{http.StatusNotFound, "LABEL_NOT_FOUND"},
			},
			{
				name: "index out of int4 range",
				body: map[string]any{"title": "X", "status": "draft", "index": int64(3000000000)},
				want: struct {
					statusCode int
					code       string
				}{http.StatusBadRequest, "VALIDATION_FAILED"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doJSON(t, api, http.MethodPost, "/api/tasks", tt.body, token)
				assert.Equal(t, tt.want.statusCode, w.Code)
				assert.Equal(t, tt.want.code, decode[errorResponse](t, w).Code)
			})
		}

		w := doJSON(t, api, http.MethodGet, "/api/tasks", nil, token)
		assert.Equal(t, "2", w.Header().Get(totalCountHeader))
	})

	t.Run("filters", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
			want  struct {
				statusCode int
				ids        []int64
			}
		}{
			{name: "none", query: "", want: struct {
				statusCode int
				ids        []int64
			}{http.StatusOK, []int64{task.ID, docs.ID}}},
			{name: "title", query: "?titleCont=LOGIN", want: struct {
				statusCode int
				ids        []int64
			}{http.StatusOK, []int64{task.ID}}},
			{name: "assignee", query: fmt.Sprintf("?assigneeId=%d", jack.ID), want: struct {
				statusCode int
				ids        []int64
			}{http.StatusOK, []int64{task.ID}}},
			{name: "status", query: "?status=published", want: struct {
				statusCode int
				ids        []int64
			}{http.StatusOK, []int64{docs.ID}}},
			{name: "label", query: fmt.Sprintf("?labelId=%d", a.ID), want: struct {
				statusCode int
				ids        []int64
			}{http.StatusOK, []int64{task.ID}}},
			{name: "combined without match", query: fmt.Sprintf("?status=published&labelId=%d", a.ID), want: struct {
				statusCode int
				ids        []int64
			}{http.StatusOK, []int64{}}},
			{name: "malformed", query: "?labelId=abc", want: struct {
				statusCode int
				ids        []int64
			}{http.StatusBadRequest, nil}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doJSON(t, api, http.MethodGet, "/api/tasks"+tt.query, nil, token)
				require.Equal(t, tt.want.statusCode, w.Code)
				if tt.want.ids == nil {
					return
				}
				ids := []int64{}
				for _, task := range decode[[]models.TaskResponse](t, w) {
					ids = append(ids, task.ID)
				}
				assert.Equal(t, tt.want.ids, ids)
				assert.Equal(t, fmt.Sprint(len(tt.want.ids)), w.Header().Get(totalCountHeader))
			})
		}
	})

	t.Run("update replaces labels and unassigns", func(t *testing.T) {
		path := fmt.Sprintf("/api/tasks/%d", task.ID)
		w := doJSON(t, api, http.MethodPut, path, `{"taskLabelIds": [`+fmt.Sprint(c.ID)+`], "assignee_id": null}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[models.TaskResponse](t, w)
		assert.Equal(t, []int64{c.ID}, got.TaskLabelIDs)
		assert.Nil(t, got.AssigneeID)
		assert.Equal(t, "Fix login", got.Title)
		assert.Equal(t, "soon", got.Content)

		w = doJSON(t, api, http.MethodPut, path, `{"taskLabelIds": []}`, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int64{}, decode[models.TaskResponse](t, w).TaskLabelIDs)

		w = doJSON(t, api, http.MethodPut, path, `{"index": 3000000000}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", decode[errorResponse](t, w).Code)
	})

	t.Run("delete then get", func(t *testing.T) {
		path := fmt.Sprintf("/api/tasks/%d", docs.ID)
		assert.Equal(t, http.StatusNoContent, doJSON(t, api, http.MethodDelete, path, nil, token).Code)
		assert.Equal(t, http.StatusNotFound, doJSON(t, api, http.MethodGet, path, nil, token).Code)
		assert.Equal(t, http.StatusNotFound, doJSON(t, api, http.MethodDelete, path, nil, token).Code)
	})
}

func TestRoutingErrors(t *testing.T) {
	api := newTestAPI(t, nil)
	register(t, api, "jack@google.com")
	token := login(t, api, "jack@google.com")

	tests := []struct {
		name   string
		method string
		path   string
		want   struct {
			statusCode int
			code       string
		}
	}{
		{name: "malformed id", method: http.MethodGet, path: "/api/tasks/abc", want: struct {
			statusCode int
			code       string
		}{http.StatusBadRequest, "INVALID_ID"}},
		{name: "non-positive id", method: http.MethodGet, path: "/api/labels/0", want: struct {
			statusCode int
			code       string
		}{http.StatusBadRequest, "INVALID_ID"}},
		{name: "unknown route", method: http.MethodGet, path: "/api/nothing", want: struct {
			statusCode int
			code       string
		}{http.StatusNotFound, "NOT_FOUND"}},
		{name: "wrong method", method: http.MethodPatch, path: "/api/tasks", want: struct {
			statusCode int
			code       string
		}{http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, api, tt.method, tt.path, nil, token)
			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Equal(t, tt.want.code, decode[errorResponse](t, w).Code)
		})
	}
}

func TestWriteErrorRedactsInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/boom", func(ctx *gin.Context) {
		writeError(ctx, fmt.Errorf("query users: %w", errors.New("pq: password authentication failed")))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "password"))
	assert.Equal(t, "INTERNAL_ERROR", decode[errorResponse](t, w).Code)
}

func TestNewTaskAPIRequiresDependencies(t *testing.T) {
	assert.Nil(t, NewTaskAPI(config.ServerConfig{}, nil, nil, nil))
}

func TestServerGracefulShutdown(t *testing.T) {
	api := newTestAPI(t, nil)

	done := make(chan error, 1)
	go func() { done <- api.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, api.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func BenchmarkListTasks(b *testing.B) {
	api := newTestAPI(b, nil)
	register(b, api, "jack@google.com")
	token := login(b, api, "jack@google.com")
	doJSON(b, api, http.MethodPost, "/api/task_statuses", map[string]string{"name": "Draft", "slug": "draft"}, token)
	for i := 0; i < 50; i++ {
		doJSON(b, api, http.MethodPost, "/api/tasks", map[string]any{"title": fmt.Sprintf("Task %d", i), "status": "draft"}, token)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doJSON(b, api, http.MethodGet, "/api/tasks?titleCont=task", nil, token)
	}
}
