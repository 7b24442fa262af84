package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-tour/internal/utils"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "session"

// Session returns an Echo middleware that resolves the caller's identity
// from the session cookie, or from an Authorization bearer header for API
// clients. A valid token injects "user_id" (uint64) and "is_admin" (bool)
// into the request context; an absent or invalid token injects nothing and
// the request continues anonymously. Read routes therefore work without a
// session while still seeing the admin flag when one is present — gating
// happens in RequireLogin/RequireAdmin.
func Session(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
				raw = ck.Value
			} else if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
			if raw != "" {
				if claims, err := utils.ParseSessionToken(secret, raw); err == nil {
					c.Set("user_id", claims.UserID)
					c.Set("is_admin", claims.IsAdmin)
				}
			}
			return next(c)
		}
	}
}

// RequireLogin rejects requests that carry no resolved session. Browser
// requests are redirected to the login form; everything else receives a
// plain 401. It assumes Session ran earlier in the chain.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get("user_id").(uint64); !ok {
			if wantsHTML(c) {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		}
		return next(c)
	}
}

// RequireAdmin rejects any request whose session user lacks the admin
// flag. A missing session is treated the same as RequireLogin; a present
// non-admin session gets a 403 denial.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireLogin(func(c echo.Context) error {
		if admin, _ := c.Get("is_admin").(bool); !admin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
		}
		return next(c)
	})
}

// wantsHTML reports whether the client is a browser expecting a page, in
// which case auth failures redirect instead of returning JSON.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "text/html")
}
