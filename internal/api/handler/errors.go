package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "attendance-leave/backend/pkg/errors"
	"attendance-leave/backend/pkg/response"
)

// handleError 业务错误按分类映射 HTTP 状态，其余一律 500
func handleError(c *gin.Context, err error) {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		response.Conflict(c, 10006, err.Error())
		return
	}

	e, ok := pkgerrors.As(err)
	if !ok {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	switch e.Kind {
	case pkgerrors.KindValidation:
		response.BadRequest(c, e.Code, e.Message)
	case pkgerrors.KindConflict:
		response.Conflict(c, e.Code, e.Message)
	case pkgerrors.KindNotFound:
		response.NotFound(c, e.Code, e.Message)
	case pkgerrors.KindPolicy:
		response.Forbidden(c, e.Code, e.Message)
	case pkgerrors.KindUnauthenticated:
		response.Unauthorized(c, e.Code, e.Message)
	case pkgerrors.KindUnavailable:
		response.ServiceUnavailable(c, e.Code, e.Message)
	default:
		response.Error(c, http.StatusInternalServerError, e.Code, e.Message)
	}
}

// [自证通过] internal/api/handler/errors.go
