package middleware

import (
	"strings"

	"masteryloop_backend/internal/config"
	"masteryloop_backend/internal/service"
	"masteryloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// AuthMiddleware requires a valid session token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		cfg := c.MustGet("config").(*config.Config)
		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuth resolves a session token when present, and otherwise binds the
// request to the resident default user so the dashboard works without a
// login step.
func TryAuth(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			cfg := c.MustGet("config").(*config.Config)
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
				c.Next()
				return
			}
		}

		user, err := users.GetOrCreateDefaultUser()
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}
		c.Set("user", &util.Claims{UserID: user.ID, Email: user.Email})
		c.Next()
	}
}
