package utils

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie names used as the credential channels between client and server.
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// SetTokenCookie writes a credential cookie.  All auth cookies are httpOnly
// and SameSite=Strict; Secure is enabled in production so the tokens only
// travel over HTTPS there.
func SetTokenCookie(c echo.Context, name, value string, maxAge time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie expires a credential cookie immediately.  The flags must
// match the ones used when setting it or some browsers keep the original.
func ClearTokenCookie(c echo.Context, name string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
