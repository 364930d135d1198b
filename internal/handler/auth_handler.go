package handler

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/httpx"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieOptions controls the jwt cookie set on register and login.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	cookie  CookieOptions
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, cookie CookieOptions, m *metrics.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: s, cookie: cookie, metrics: m, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "register", invalidBody())
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "register", err)
		return
	}

	h.setTokenCookie(c, token)
	h.metrics.RecordAuth("register", metrics.OutcomeSuccess, "")
	c.JSON(http.StatusCreated, model.AuthResponse{UserResponse: user.ToResponse(), Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "login", invalidBody())
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "login", err)
		return
	}

	h.setTokenCookie(c, token)
	h.metrics.RecordAuth("login", metrics.OutcomeSuccess, "")
	c.JSON(http.StatusOK, model.AuthResponse{UserResponse: user.ToResponse(), Token: token})
}

// Logout clears the cookie. Issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context())
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookie.Secure, true)
	h.metrics.RecordAuth("logout", metrics.OutcomeSuccess, "")
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Logged out successfully"})
}

// Profile returns the user bound to the verified token.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		httpx.Error(c, h.logger, apperr.Unauthenticated(nil))
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "profile", err)
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/profile", authMW, h.Profile)
	}
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(middleware.TokenCookie, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	h.metrics.RecordAuth(op, metrics.OutcomeFailure, apperr.CodeOf(err))
	httpx.Error(c, h.logger, err)
}

func invalidBody() error {
	return apperr.Validation("Invalid request body", nil)
}
