package handler

import (
	"net/http"
	"sync"
	"time"

	"retail-ledger/internal/config"
	"retail-ledger/internal/middleware"
	"retail-ledger/internal/models"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 10 * time.Minute
)

// AuthHandler signs the shop admin in and out. There is a single admin
// whose password hash lives in the configuration.
type AuthHandler struct {
	DB           *gorm.DB
	JWTSecret    string
	Issuer       string
	TokenTTL     time.Duration
	PasswordHash string

	mu          sync.Mutex
	failures    int
	lockedUntil time.Time
	now         func() time.Time
}

func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig, passwordHash string) *AuthHandler {
	ttlHours := jwtCfg.ExpireHours
	if ttlHours <= 0 {
		ttlHours = 12
	}
	return &AuthHandler{
		DB:           db,
		JWTSecret:    jwtCfg.Secret,
		Issuer:       jwtCfg.Issuer,
		TokenTTL:     time.Duration(ttlHours) * time.Hour,
		PasswordHash: passwordHash,
		now:          time.Now,
	}
}

type loginReq struct {
	Password string `json:"password" binding:"required"`
}

// checkPassword applies the lockout: after five wrong passwords in a row
// every attempt fails for ten minutes.
func (h *AuthHandler) checkPassword(password string, now time.Time) (ok, locked bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if now.Before(h.lockedUntil) {
		return false, true
	}
	if !util.CheckPassword(password, h.PasswordHash) {
		h.failures++
		if h.failures >= maxFailedLogins {
			h.lockedUntil = now.Add(lockoutDuration)
			h.failures = 0
		}
		return false, false
	}
	h.failures = 0
	return true, false
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid parameters")
		return
	}
	if h.PasswordHash == "" || h.JWTSecret == "" {
		util.Error(c, http.StatusServiceUnavailable, util.CodeAuth, "admin login is not configured")
		return
	}

	now := h.now()
	ok, locked := h.checkPassword(req.Password, now)
	if locked {
		util.Error(c, http.StatusTooManyRequests, util.CodeAuth, "too many failed attempts, try again later")
		return
	}
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong password")
		return
	}

	sess := models.Session{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(h.TokenTTL),
		ClientIP:  c.ClientIP(),
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&sess).Error; err != nil {
		respondError(c, err)
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, sess.ID, now, h.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", false, true)
	util.Success(c, util.Response{
		"token":      token,
		"expires_at": sess.ExpiresAt,
	})
}

// Logout revokes the session behind the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
		return
	}
	if err := h.DB.WithContext(c.Request.Context()).
		Model(&models.Session{}).
		Where("id = ?", sess.ID).
		Update("revoked", true).Error; err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	util.Success(c, util.Response{"message": "signed out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
		return
	}
	util.Success(c, util.Response{
		"role":       util.RoleAdmin,
		"session_id": sess.ID,
		"expires_at": sess.ExpiresAt,
		"client_ip":  sess.ClientIP,
	})
}
