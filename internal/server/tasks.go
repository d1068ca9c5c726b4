package server

import (
	"net/http"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/mapper"

	"github.com/gin-gonic/gin"
)

// listTasks accepts titleCont, assigneeId, status and labelId; the set ones are ANDed.
func (api *TaskAPI) listTasks(ctx *gin.Context) {
	var query models.TaskFilterQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		writeError(ctx, errors.ErrInvalidFilter)
		return
	}

	tasks, err := api.services.Tasks.List(ctx.Request.Context(), mapper.ToTaskFilter(query))
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeCollection(ctx, tasks)
}

func (api *TaskAPI) getTask(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	task, err := api.services.Tasks.Get(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	var req models.TaskCreateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	task, err := api.services.Tasks.Create(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

func (api *TaskAPI) updateTask(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var req models.TaskUpdateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	task, err := api.services.Tasks.Update(ctx.Request.Context(), id, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if err := api.services.Tasks.Delete(ctx.Request.Context(), id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
