package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saga-aleeka/saga-store/db"
)

// RequestTimeout bounds every handler's store and LIMS calls through the
// request context. Handlers surface the deadline as a timeout response
// instead of hanging.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminOnly gates container mutations: either the deployment's admin secret
// header, or a bearer token of a known authorized user. Matching users get
// their identity attached for audit entries.
func AdminOnly(cfg Config, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminSecret != "" && c.GetHeader("X-Admin-Secret") == cfg.AdminSecret {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "missing_admin_credentials"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "missing_admin_credentials"})
			return
		}
		u, err := repo.FindAuthorizedUserByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set("userInitials", u.Initials)
		c.Set("userName", u.Name)
		c.Next()
	}
}
