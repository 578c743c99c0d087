package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oragh/backend/pkg/response"
)

// BodyLimit caps request bodies at maxBytes. Declared oversize bodies are
// refused up front; streamed ones fail when the handler reads past the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
