package middleware

// identity.go holds the context accessors for the authenticated user.
// Protect stores the user under CurrentUserKey.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/model"
)

// CurrentUserKey is the echo.Context key of the authenticated user.
const CurrentUserKey = "currentUser"

func setCurrentUser(c echo.Context, u *model.User) {
	c.Set(CurrentUserKey, u)
}

// CurrentUser returns the user stored by Protect.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(CurrentUserKey).(*model.User)
	return u, ok && u != nil
}

// userID returns the current user's id or "guest" for anonymous requests.
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return u.ID
	}
	return "guest"
}
