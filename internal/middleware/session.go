package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/models"
	"github.com/nlcorner/admin-api/internal/service"
	"github.com/nlcorner/admin-api/pkg/response"
)

// ContextAuthKey is the gin context key storing the resolved session.
const ContextAuthKey = "authContext"

// RequireAdmin protects routes by requiring a session cookie belonging to an
// admin account. The resolved AuthContext is stored on the gin context.
func RequireAdmin(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		auth, err := authService.Authorize(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextAuthKey, auth)
		c.Next()
	}
}

// CurrentAuth returns the AuthContext stored by RequireAdmin, if any.
func CurrentAuth(c *gin.Context) *models.AuthContext {
	if c == nil {
		return nil
	}
	if value, exists := c.Get(ContextAuthKey); exists {
		if auth, ok := value.(*models.AuthContext); ok {
			return auth
		}
	}
	return nil
}
