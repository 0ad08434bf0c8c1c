package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/akkervarken/webshop-api/config"
)

// RequireAdmin is a middleware that guards admin endpoints with HTTP Basic
// credentials compared in constant time against the configured values.
// When no credentials are configured the endpoints fail closed with 503.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.AdminConfigured() {
			log.Println("Admin request rejected: credentials not configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ADMIN_NOT_CONFIGURED",
					"message": "Admin access not configured",
				},
			})
			c.Abort()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok || !credentialsMatch(username, password, cfg) {
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid admin credentials",
				},
			})
			c.Abort()
			return
		}

		c.Set("admin_user", username)
		c.Next()
	}
}

// credentialsMatch compares both values in constant time. Both comparisons
// always run so timing does not reveal which one failed.
func credentialsMatch(username, password string, cfg *config.Config) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
	return userOK && passOK
}

// GetAdminUser extracts the authenticated admin username from the Gin context
func GetAdminUser(c *gin.Context) (string, error) {
	user, exists := c.Get("admin_user")
	if !exists {
		return "", &AuthError{Code: "MISSING_ADMIN_USER", Message: "Admin user not found in context"}
	}

	userStr, ok := user.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ADMIN_USER", Message: "Admin user is not a string"}
	}

	return userStr, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
