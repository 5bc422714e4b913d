package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "user-portal/internal/transport/http/response"
)

// MaxBodyBytes caps request bodies. Handlers that hit the cap while binding
// record the error on the context and leave the response unwritten.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.CodeRequestTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()

		var tooLarge *http.MaxBytesError
		if last := c.Errors.Last(); last != nil && !c.Writer.Written() && errors.As(last.Err, &tooLarge) {
			resp.Abort(c, resp.CodeRequestTooLarge, "request body too large")
		}
	}
}
