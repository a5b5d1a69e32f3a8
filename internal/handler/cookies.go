package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/account-api/internal/service"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieOptions controls the flags and lifetimes of the auth cookies.
type CookieOptions struct {
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// setAuthCookies delivers a freshly issued token pair as HttpOnly cookies.
func setAuthCookies(w http.ResponseWriter, pair *service.TokenPair, opts CookieOptions) {
	http.SetCookie(w, authCookie(accessTokenCookie, pair.AccessToken, int(opts.AccessMaxAge.Seconds()), opts.Secure))
	http.SetCookie(w, authCookie(refreshTokenCookie, pair.RefreshToken, int(opts.RefreshMaxAge.Seconds()), opts.Secure))
}

// clearAuthCookies expires both auth cookies.
func clearAuthCookies(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, authCookie(accessTokenCookie, "", -1, opts.Secure))
	http.SetCookie(w, authCookie(refreshTokenCookie, "", -1, opts.Secure))
}

func authCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
