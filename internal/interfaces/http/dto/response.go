package dto

import (
	"github.com/gin-gonic/gin"

	apperrors "ai-story-api/pkg/errors"
	"ai-story-api/pkg/logger"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Error 将错误写为统一错误信封；非 AppError 视为内部错误
func Error(c *gin.Context, err error) {
	appErr := apperrors.ErrInternalError.WithError(err)
	if apperrors.IsAppError(err) {
		appErr = apperrors.AsAppError(err)
	}
	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"code", string(appErr.Code),
			"path", c.FullPath(),
		)
	}
	Abort(c, appErr)
}

// Abort 写入错误信封并中止后续处理
func Abort(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{
		Error:     appErr.Message,
		Code:      string(appErr.Code),
		RequestID: c.GetString("request_id"),
	})
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	Abort(c, apperrors.New(apperrors.CodeInvalidParam, message))
}
