package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/templink/internal/shared/constants"
	"github.com/orris-inc/templink/internal/shared/logger"
	"github.com/orris-inc/templink/internal/shared/utils"
)

// Recovery turns panics in handlers and link callbacks into 500 responses.
// Only the route pattern is logged; the raw path carries the link token.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		args := []any{
			"route", c.FullPath(),
			"method", c.Request.Method,
			"error", recovered,
		}
		if requestID, exists := c.Get(constants.ContextKeyRequestID); exists {
			args = append(args, "request_id", requestID)
		}
		if outcome, ok := OutcomeFrom(c); ok {
			// the link was already consumed when a callback panicked
			args = append(args, "templink", outcome.String())
		}

		if isBrokenConnection(recovered) {
			log.Warnw("connection broken during request", args...)
			c.Abort()
			return
		}

		log.Errorw("panic recovered", append(args, "stack", string(debug.Stack()))...)

		if c.Writer.Written() {
			c.Abort()
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
	})
}

func isBrokenConnection(recovered interface{}) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}

	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	var se *os.SyscallError
	if !errors.As(ne.Err, &se) {
		return false
	}

	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
