package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/model"
	"github.com/iliyamo/chatapp-auth/internal/response"
)

// lookupTimeout bounds the user lookup done for every protected request.
const lookupTimeout = 5 * time.Second

// Authenticator resolves the user behind an Authorization header value.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*model.User, error)
}

// Protect returns an Echo middleware that requires a valid Bearer access
// token belonging to an existing user.  The user is stored in the context
// for downstream handlers; see CurrentUser.
func Protect(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), lookupTimeout)
			defer cancel()

			u, err := auth.Authenticate(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return response.FromError(c, err, "An error occurred while authenticating.")
			}
			setCurrentUser(c, u)
			return next(c)
		}
	}
}
