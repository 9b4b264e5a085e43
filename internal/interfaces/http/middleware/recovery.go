// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"dummy-data-api/internal/interfaces/http/dto"
	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
)

// Recovery Panic 恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				if c.Writer.Written() {
					c.Abort()
					return
				}
				dto.ErrorWithDetail(c, http.StatusInternalServerError, apperrors.ErrInternalError.Message, &dto.ErrorDetail{
					ErrorCode: string(apperrors.CodeInternalError),
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
