package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/response"
)

// RequireFeature hides a route group when its feature flag is off.
func RequireFeature(name string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled {
			c.Next()
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrDisabled, name+" is disabled"))
		c.Abort()
	}
}
