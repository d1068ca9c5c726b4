package server

import (
	"net/http"
	"strconv"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/logger"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func statusOf(kind errors.Kind) int {
	switch kind {
	case errors.KindValidation, errors.KindConflict:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindUnauthorized:
		return http.StatusUnauthorized
	case errors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with the JSON body for err. Only the
// sentinel message goes out; wrapped driver errors stay in the log.
func writeError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)

	var de *errors.Error
	if !errors.As(err, &de) || de.Kind == errors.KindInternal {
		logger.FromContext(ctx.Request.Context()).Error("request failed", "error", err)
		de = errors.ErrInternalServer
	}

	ctx.AbortWithStatusJSON(statusOf(de.Kind), errorResponse{
		Error:   de.Message,
		Code:    de.Code,
		Details: validationDetails(err),
	})
}

// validationDetails returns the failed rule per JSON field, if err carries any.
func validationDetails(err error) map[string]string {
	var fields models.FieldErrors
	if !errors.As(err, &fields) {
		return nil
	}
	return fields
}

func pathID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidID
	}
	return id, nil
}

// bindJSON decodes the body into req. Rule checks are left to the services.
func bindJSON(ctx *gin.Context, req any) error {
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.FromContext(ctx.Request.Context()).Debug("malformed request body", "error", err)
		return errors.ErrBadRequest
	}
	return nil
}
