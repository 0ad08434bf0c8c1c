package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/akkervarken/webshop-api/config"
)

func setupAuthTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", RequireAdmin(cfg), func(c *gin.Context) {
		user, err := GetAdminUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "admin": user})
	})
	return router
}

func TestRequireAdmin_NotConfigured(t *testing.T) {
	cfg := &config.Config{}
	router := setupAuthTestRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.SetBasicAuth("admin", "whatever")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.False(t, response["success"].(bool))

	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ADMIN_NOT_CONFIGURED", errorData["code"])
}

func TestRequireAdmin_PartialConfigurationFailsClosed(t *testing.T) {
	cfg := &config.Config{AdminUsername: "admin"}
	router := setupAuthTestRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.SetBasicAuth("admin", "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireAdmin_ValidCredentials(t *testing.T) {
	cfg := &config.Config{AdminUsername: "admin", AdminPassword: "geheim123"}
	router := setupAuthTestRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.SetBasicAuth("admin", "geheim123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))
	assert.Equal(t, "admin", response["admin"])
}

func TestRequireAdmin_InvalidCredentials(t *testing.T) {
	cfg := &config.Config{AdminUsername: "admin", AdminPassword: "geheim123"}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"Wrong password", "admin", "fout"},
		{"Wrong username", "beheerder", "geheim123"},
		{"Both wrong", "beheerder", "fout"},
		{"Empty credentials", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthTestRouter(cfg)

			req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
			req.SetBasicAuth(tt.username, tt.password)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, `Basic realm="admin"`, w.Header().Get("WWW-Authenticate"))

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.False(t, response["success"].(bool))

			errorData := response["error"].(map[string]interface{})
			assert.Equal(t, "UNAUTHORIZED", errorData["code"])
		})
	}
}

func TestRequireAdmin_MissingAuthorizationHeader(t *testing.T) {
	cfg := &config.Config{AdminUsername: "admin", AdminPassword: "geheim123"}
	router := setupAuthTestRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/admin/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="admin"`, w.Header().Get("WWW-Authenticate"))
}

func TestGetAdminUser_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetAdminUser(c)
	assert.Error(t, err)

	authErr, ok := err.(*AuthError)
	assert.True(t, ok)
	assert.Equal(t, "MISSING_ADMIN_USER", authErr.Code)
}

func TestAuthError_Error(t *testing.T) {
	err := &AuthError{Code: "TEST", Message: "boom"}
	assert.Equal(t, "boom", err.Error())
}
