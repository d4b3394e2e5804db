package auth

import (
	"net/http"
	"strings"
	"time"

	"waterpermits/internal/config"

	"github.com/gin-gonic/gin"
)

// CookieConfig says how the session cookie is written. HttpOnly always;
// the rest comes from runtime config.
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

func CookieFromConfig(cfg *config.Config) CookieConfig {
	return CookieConfig{
		Name:     cfg.CookieName,
		Secure:   cfg.CookieSecure,
		SameSite: parseSameSite(cfg.CookieSameSite),
		TTL:      cfg.SessionTTL,
	}
}

func (cc CookieConfig) Set(c *gin.Context, token string) {
	c.SetSameSite(cc.SameSite)
	c.SetCookie(cc.Name, token, int(cc.TTL.Seconds()), "/", "", cc.Secure, true)
}

func (cc CookieConfig) Clear(c *gin.Context) {
	c.SetSameSite(cc.SameSite)
	c.SetCookie(cc.Name, "", -1, "/", "", cc.Secure, true)
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
