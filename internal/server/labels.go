package server

import (
	"net/http"

	"taskmanager/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func (api *TaskAPI) listLabels(ctx *gin.Context) {
	labels, err := api.services.Labels.List(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeCollection(ctx, labels)
}

func (api *TaskAPI) getLabel(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	label, err := api.services.Labels.Get(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, label)
}

func (api *TaskAPI) createLabel(ctx *gin.Context) {
	var req models.LabelCreateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	label, err := api.services.Labels.Create(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, label)
}

func (api *TaskAPI) updateLabel(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var req models.LabelUpdateRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	label, err := api.services.Labels.Update(ctx.Request.Context(), id, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, label)
}

func (api *TaskAPI) deleteLabel(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if err := api.services.Labels.Delete(ctx.Request.Context(), id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
