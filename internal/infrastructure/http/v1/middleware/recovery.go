// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstock/internal/core/apperror"
	"bookstock/pkg/logger"
)

// Recovery converts panics into 500 responses. The stack trace goes to the
// log only; the client sees the generic internal error payload.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			// A client hangup mid-write surfaces as a panic in net/http.
			// There is nobody left to answer, so just drop the request.
			if isBrokenPipe(r) {
				logger.Warn(c.Request.Context(), "connection dropped by client",
					"path", c.Request.URL.Path,
				)
				c.Abort()
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"panic", r,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", r)))
			c.Abort()
		}()

		c.Next()
	}
}

func isBrokenPipe(r any) bool {
	err, ok := r.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	msg := strings.ToLower(opErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
