package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const userKey = "session_user"

// Session reads the session cookie on every request and stores the user in
// the context when the token is valid. Invalid tokens are treated as
// anonymous.
func (m *Manager) Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err == nil && cookie.Value != "" {
				if claims, err := m.ValidateJWT(cookie.Value); err == nil {
					c.Set(userKey, claims.User)
				}
			}
			return next(c)
		}
	}
}

// RequireUser redirects anonymous visitors to the login page.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.Redirect(http.StatusSeeOther, "/login?next="+c.Request().URL.Path)
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects everyone but administrators.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if !u.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the signed-in user, if any.
func CurrentUser(c echo.Context) (SessionUser, bool) {
	u, ok := c.Get(userKey).(SessionUser)
	return u, ok
}

// SetSession writes the session cookie for u.
func (m *Manager) SetSession(c echo.Context, u SessionUser) error {
	token, err := m.GenerateJWT(u)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Scheme() == "https",
	})
	return nil
}

// ClearSession expires the session cookie.
func ClearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
