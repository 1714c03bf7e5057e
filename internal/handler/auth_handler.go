package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"clientportal/internal/session"
	"clientportal/pkg/logger"
	"clientportal/pkg/util"
)

type AuthHandler struct {
	gate     *session.Gate
	slots    session.SlotStore
	secret   string
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthHandler(gate *session.Gate, slots session.SlotStore, secret string, tokenTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		gate:     gate,
		slots:    slots,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login handles POST /login. Each login opens a fresh slot; the token only
// carries the slot id.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	sid := uuid.NewString()
	sess := h.gate.Bind(h.slots.Slot(sid))

	account, err := sess.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := util.GenerateJWT(sid, h.secret, h.tokenTTL)
	if err != nil {
		logger.WithTrace(ctx, h.logger).Error("Failed to sign token", zap.Error(err))
		_ = sess.EndSession(ctx)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"account": account,
	})
}

// Logout handles POST /logout. It succeeds even without a valid token.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if token := util.ExtractToken(c.Request); token != "" {
		if sid, err := util.ParseJWT(token, h.secret); err == nil {
			if err := h.gate.Bind(h.slots.Slot(sid)).EndSession(ctx); err != nil {
				logger.WithTrace(ctx, h.logger).Warn("Failed to end session", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, account)
}
