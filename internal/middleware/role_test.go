package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("HOST", "MANAGER")

	assert.Equal(t, http.StatusOK, callWithRole(t, mw, "HOST").Code)
	assert.Equal(t, http.StatusOK, callWithRole(t, mw, "MANAGER").Code)
	assert.Equal(t, http.StatusForbidden, callWithRole(t, mw, "COOK").Code)
	assert.Equal(t, http.StatusForbidden, callWithRole(t, mw, nil).Code)
	// A non-string claim is treated as missing.
	assert.Equal(t, http.StatusForbidden, callWithRole(t, mw, 42).Code)
}
