package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/relieforg/reliefhub/internal/middleware"
	"github.com/relieforg/reliefhub/internal/pkg/errcode"
	appErr "github.com/relieforg/reliefhub/internal/pkg/errors"
	"github.com/relieforg/reliefhub/internal/pkg/response"
)

func getUserID(c *gin.Context) int64 {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(int64)
	return userID
}

// handleError maps domain sentinels onto wire codes. Anything
// unrecognized is a contained storage or infrastructure failure: it is
// logged and degraded to a generic retryable message.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if ve, ok := appErr.AsValidationError(err); ok {
		response.Fields(c, errcode.ErrInvalid, "validation failed", ve.Fields)
		return
	}
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "invalid email or password")
	case errors.Is(err, appErr.ErrCodeExpired):
		response.Error(c, errcode.ErrCodeExpired, "verification code expired, request a new one")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "this action is restricted")
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "email already registered")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	default:
		requestID, _ := c.Get(middleware.ContextRequestIDKey)
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.Any("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Error(c, errcode.ErrInternal, "something went wrong, please try again")
	}
}
