package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/response"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems.  It returns a plain text "ok" with status 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root answers GET / with a banner.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "ChatApp Backend is running!"})
}

// AuthHealth answers GET /auth/.
func AuthHealth(c echo.Context) error {
	return response.Success(c, http.StatusOK, "Auth route is working", nil)
}
