package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/model"
	"github.com/iliyamo/chatapp-auth/internal/response"
	"github.com/iliyamo/chatapp-auth/internal/service"
)

// Authorizer decides whether a user may pass a role gate.
type Authorizer interface {
	Authorize(u *model.User, allowed model.RoleSet) error
}

// RestrictTo returns a middleware that lets the request through only when
// the current user's role is in allowed.  It must run after Protect; a
// request without a current user is forbidden.
func RestrictTo(authz Authorizer, allowed model.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, _ := CurrentUser(c)
			if err := authz.Authorize(u, allowed); err != nil {
				return response.FromError(c, err, service.ErrForbidden.Message)
			}
			return next(c)
		}
	}
}
