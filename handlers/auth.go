package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/internal/operators"
	"github.com/devfolio/devfolio/internal/sessions"
	"github.com/devfolio/devfolio/internal/tokens"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/devfolio/devfolio/pkg/metrics"
	"github.com/devfolio/devfolio/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// ClaimsVerifier verifies an OIDC ID token and returns its claims.
type ClaimsVerifier interface {
	VerifyClaims(ctx context.Context, raw string) (map[string]interface{}, error)
}

// AuthHandler issues access and refresh tokens for JSON API clients.
type AuthHandler struct {
	cfg          *config.Config
	operatorsSvc *operators.Service
	sessionsSvc  *sessions.Service
	verifier     middleware.Verifier
	blacklist    sessions.Blacklist
	oidc         ClaimsVerifier
}

// NewAuthHandler creates an AuthHandler. bl may be nil, in which case logout
// only revokes the refresh token.
func NewAuthHandler(cfg *config.Config, ops *operators.Service, sess *sessions.Service, bl sessions.Blacklist) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		operatorsSvc: ops,
		sessionsSvc:  sess,
		verifier:     tokens.NewVerifier(cfg.JWT.Secret),
		blacklist:    bl,
	}
}

// WithOIDC enables the "oidc" login mode.
func (h *AuthHandler) WithOIDC(v ClaimsVerifier) *AuthHandler {
	h.oidc = v
	return h
}

// Verifier is the access token verifier for routes behind AuthMiddleware.
func (h *AuthHandler) Verifier() middleware.Verifier { return h.verifier }

// Register registers auth routes on the provided router group
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/refresh", h.Refresh)
	rg.POST("/auth/logout", middleware.AuthMiddleware(h.verifier, h.blacklist), h.Logout)
}

// Login supports mode=password ({email, password}) and mode=oidc ({id_token}).
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Mode     string `json:"mode"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IDToken  string `json:"id_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode == "" {
		req.Mode = "password"
	}

	var op *operators.Operator
	var err error
	switch req.Mode {
	case "password":
		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		op, err = h.operatorsSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, operators.ErrInvalidCredentials) {
			loginAttempt(req.Mode, "failure")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}
	case "oidc":
		if h.oidc == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "oidc login not configured"})
			return
		}
		if req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required for oidc mode"})
			return
		}
		claims, verr := h.oidc.VerifyClaims(c.Request.Context(), req.IDToken)
		if verr != nil {
			loginAttempt(req.Mode, "failure")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token", "details": verr.Error()})
			return
		}
		op, err = h.operatorsSvc.UpsertFromClaims(c.Request.Context(), claims)
		if errors.Is(err, operators.ErrNotOperator) {
			loginAttempt(req.Mode, "failure")
			c.JSON(http.StatusForbidden, gin.H{"error": "identity is not an operator"})
			return
		}
		if err == nil && op == nil {
			loginAttempt(req.Mode, "failure")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "id token has no subject"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported mode"})
		return
	}
	if err != nil {
		loginAttempt(req.Mode, "error")
		logger.Errorf("login(%s): operator lookup failed: %v", req.Mode, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "operator lookup failed"})
		return
	}

	sess, err := h.sessionsSvc.Create(c.Request.Context(), op.ID, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		loginAttempt(req.Mode, "error")
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, op, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		loginAttempt(req.Mode, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	loginAttempt(req.Mode, "success")
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": sess.Token,
		"operator":     op,
		"expiresIn":    int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.Validate(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	op, err := h.operatorsSvc.GetByID(c.Request.Context(), sess.Sub)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "operator lookup failed"})
		return
	}
	if op == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "operator no longer exists"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, op, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "expiresIn": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout revokes the refresh token and blacklists the presented access token
// for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.blacklist != nil {
		if ttl := middleware.RemainingTTL(c); ttl > 0 {
			if err := h.blacklist.Add(c.Request.Context(), c.GetString(middleware.TokenKey), ttl); err != nil {
				logger.Errorf("failed to blacklist access token: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
				return
			}
		}
	}
	if err := h.sessionsSvc.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func loginAttempt(mode, outcome string) {
	metrics.LoginAttempts.WithLabelValues(mode, outcome).Inc()
}
