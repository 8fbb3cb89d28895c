package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-frontdesk/access"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(table *access.Table) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/shift", JWTAuth("secret"), RequirePermission(table, access.GuestShift), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Username)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(t *testing.T, r http.Handler, path, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		token, _, err := utils.NewAccessToken("secret", 1, "desk", role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPermissionGuard(t *testing.T) {
	table := access.NewTable(map[string][]string{
		"manager":      {access.GuestShift},
		"receptionist": {access.GuestView},
	})
	r := newRouter(table)

	assert.Equal(t, http.StatusUnauthorized, get(t, r, "/shift", "").Code)
	assert.Equal(t, http.StatusForbidden, get(t, r, "/shift", "receptionist").Code)

	w := get(t, r, "/shift", "manager")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "desk", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusOK, get(t, r, "/shift", "Owner").Code)
}

func TestRecovery(t *testing.T) {
	w := get(t, newRouter(access.NewTable(nil)), "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, w.Body.String())
}
