package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"retail-ledger/internal/models"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionKey = "adminSession"

// TokenCookie carries the admin token for browser clients; Login sets it.
const TokenCookie = "rl_token"

// tokenFrom looks in the Authorization header, then ?token= (for downloads
// opened as plain links), then the rl_token cookie.
func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// AdminMiddleware admits requests carrying a valid admin token whose
// session is neither revoked nor expired.
func AdminMiddleware(secret, issuer string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(secret, issuer, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, sign in again")
			c.Abort()
			return
		}

		var sess models.Session
		if err := db.WithContext(c.Request.Context()).First(&sess, "id = ?", claims.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, sign in again")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "session lookup failed")
			}
			c.Abort()
			return
		}
		if !sess.Active(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, sign in again")
			c.Abort()
			return
		}

		c.Set(sessionKey, &sess)
		c.Next()
	}
}

// CurrentSession returns the session stored by AdminMiddleware, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}
