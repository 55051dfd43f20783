package v1

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"

	"quirk/config"
	"quirk/internal/auth"
	"quirk/internal/metrics"
	"quirk/internal/oauth"
	"quirk/service"

	"github.com/gin-gonic/gin"
)

const stateCookieName = "oauth_state"

// OAuthAPI drives the provider code flows and the post-login bridge page.
type OAuthAPI struct {
	service   *service.AuthService
	providers map[string]*oauth.Provider
}

// NewOAuthAPI 从配置装配 Google / GitHub 两个提供方。
func NewOAuthAPI(s *service.AuthService, cfg config.OAuthConfig) *OAuthAPI {
	return &OAuthAPI{
		service: s,
		providers: map[string]*oauth.Provider{
			"google": oauth.NewGoogle(cfg.Google),
			"github": oauth.NewGitHub(cfg.GitHub),
		},
	}
}

// Authorize redirects into the provider's consent flow with a fresh
// state nonce pinned in a short-lived cookie.
func (o *OAuthAPI) Authorize(name string) gin.HandlerFunc {
	provider := o.providers[name]
	return func(c *gin.Context) {
		state, err := randomState()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		// state cookie 10 分钟够完成一次授权跳转
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(stateCookieName, state, 600, "/", "", config.IsProduction(), true)
		c.Redirect(http.StatusTemporaryRedirect, provider.AuthURL(state))
	}
}

// Callback exchanges the code, provisions/merges the account and issues
// the same token+cookie contract as local login.
func (o *OAuthAPI) Callback(name string) gin.HandlerFunc {
	provider := o.providers[name]
	return func(c *gin.Context) {
		stored, err := c.Cookie(stateCookieName)
		if err != nil || stored == "" || stored != c.Query("state") {
			metrics.IncOAuth(name, "state_mismatch")
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed"})
			return
		}
		// state 一次性使用，立即清掉
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(stateCookieName, "", -1, "/", "", config.IsProduction(), true)

		profile, err := provider.Exchange(c.Request.Context(), c.Query("code"))
		if err != nil {
			metrics.IncOAuth(name, "exchange_failed")
			log.Printf("oauth %s exchange failed: %v", name, err)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed"})
			return
		}

		user, err := o.service.LoginWithOAuth(service.OAuthProfile{
			Provider:    profile.Provider,
			ProviderID:  profile.ID,
			Username:    profile.Username,
			DisplayName: profile.DisplayName,
			Email:       profile.Email,
			Avatar:      profile.Avatar,
		})
		if err != nil {
			metrics.IncOAuth(name, "internal_error")
			log.Printf("oauth %s login failed: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		token, err := auth.GenerateToken(user.ID)
		if err != nil {
			metrics.IncOAuth(name, "internal_error")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		auth.SetTokenCookie(c, token)

		metrics.IncOAuth(name, "success")
		c.Redirect(http.StatusFound, "/api/v1/oauth/success")
	}
}

// Success serves the bridge page: the cookie is already set on this
// origin, so the page just signals the opener window (restricted to the
// configured client origin) and closes itself.
func (o *OAuthAPI) Success(c *gin.Context) {
	page := fmt.Sprintf(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>OAuth Success</title>
  </head>
  <body style="font-family: system-ui, sans-serif; padding: 24px;">
    <h2>OAuth login successful</h2>
    <p>Auth cookie has been set.</p>
    <p>If this window doesn't close automatically, you can close it and return to the app.</p>
    <script>
      (function() {
        try {
          if (window.opener && !window.opener.closed) {
            window.opener.postMessage({ type: 'OAUTH_SUCCESS' }, %q);
            window.close();
          }
        } catch (e) {
          // ignore
        }
      })();
    </script>
  </body>
</html>`, config.GlobalConfig.Server.ClientURL)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
