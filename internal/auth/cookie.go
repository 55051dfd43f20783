package auth

import (
	"net/http"

	"quirk/config"

	"github.com/gin-gonic/gin"
)

// TokenCookieName 会话 cookie 名称
const TokenCookieName = "token"

// SetTokenCookie writes the session cookie: httponly, 7-day max-age,
// Secure + SameSite=None in production, SameSite=Lax in development.
func SetTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(cookieSameSite())
	c.SetCookie(TokenCookieName, token, int(config.GlobalConfig.JWT.Expire), "/", "", config.IsProduction(), true)
}

// ClearTokenCookie removes the session cookie. The attribute set must be
// byte-identical to SetTokenCookie: browsers silently refuse to clear a
// cookie when path/SameSite/Secure differ from the ones it was set with.
func ClearTokenCookie(c *gin.Context) {
	c.SetSameSite(cookieSameSite())
	c.SetCookie(TokenCookieName, "", -1, "/", "", config.IsProduction(), true)
}

func cookieSameSite() http.SameSite {
	if config.IsProduction() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
