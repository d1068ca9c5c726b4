package server

import (
	"net/http"

	"taskmanager/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func (api *TaskAPI) listTaskStatuses(ctx *gin.Context) {
	statuses, err := api.services.TaskStatuses.List(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeCollection(ctx, statuses)
}

func (api *TaskAPI) getTaskStatus(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	status, err := api.services.TaskStatuses.Get(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

func (api *TaskAPI) createTaskStatus(ctx *gin.Context) {
	var req models.TaskStatusCreateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	status, err := api.services.TaskStatuses.Create(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, status)
}

func (api *TaskAPI) updateTaskStatus(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var req models.TaskStatusUpdateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	status, err := api.services.TaskStatuses.Update(ctx.Request.Context(), id, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}

func (api *TaskAPI) deleteTaskStatus(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if err := api.services.TaskStatuses.Delete(ctx.Request.Context(), id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
