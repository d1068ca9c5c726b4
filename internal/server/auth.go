package server

import (
	"net/http"

	"taskmanager/internal/domain/models"

	"github.com/gin-gonic/gin"
)

const tokenCookie = "jwt_token"

func (api *TaskAPI) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := api.services.Auth.Login(ctx.Request.Context(), req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(tokenCookie, resp.Token, int(api.tokens.TTL().Seconds()), "/", "", ctx.Request.TLS != nil, true)
	ctx.JSON(http.StatusOK, resp)
}
