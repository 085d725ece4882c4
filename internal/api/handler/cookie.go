package handler

import (
	"net/http"
	"time"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func (cc CookieConfig) issue(token string) *http.Cookie {
	return &http.Cookie{
		Name:     cc.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cc.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (cc CookieConfig) clear() *http.Cookie {
	return &http.Cookie{
		Name:     cc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
