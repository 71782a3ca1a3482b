package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects write requests that declare a non-JSON body. An
// absent Content-Type falls through so a missing body still answers 400
// at the bind step rather than 415 here.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := c.GetHeader("Content-Type")
			// allow "application/json; charset=utf-8"
			if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"status": "ERROR_UNSUPPORTED_MEDIA_TYPE",
					"info":   "Content-Type must be application/json",
				})
				return
			}
		}
		c.Next()
	}
}
