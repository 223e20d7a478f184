package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/rentops/ledger_backend/internal/middleware"
	"github.com/rentops/ledger_backend/internal/platform/config"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// authHandler handles registration and login.
type authHandler struct {
	userService   portssvc.UserService
	tokenService  portssvc.TokenService
	googleService portssvc.GoogleOAuthService
}

func newAuthHandler(userService portssvc.UserService, tokenService portssvc.TokenService, googleService portssvc.GoogleOAuthService) *authHandler {
	return &authHandler{
		userService:   userService,
		tokenService:  tokenService,
		googleService: googleService,
	}
}

func (h *authHandler) loginResponse(c *gin.Context, userID string, companyID string) (dto.LoginResponse, bool) {
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return dto.LoginResponse{}, false
	}
	token, _, err := h.tokenService.GenerateAccessToken(userID, companyID)
	if err != nil {
		respondError(c, err, "Failed to generate access token")
		return dto.LoginResponse{}, false
	}
	return dto.LoginResponse{AccessToken: token, User: dto.ToUserResponse(user)}, true
}

// register godoc
// @Summary Register a new company and user
// @Description Creates a company and its first user, returning an access token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   registration body dto.RegisterUserRequest true "Registration details"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Username already taken"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	resp, ok := h.loginResponse(c, user.UserID, user.CompanyID)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// login godoc
// @Summary Log in with local credentials
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Username and password"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]string "Invalid username or password"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	resp, ok := h.loginResponse(c, user.UserID, user.CompanyID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// googleLogin godoc
// @Summary Log in with a Google authorization code
// @Description Exchanges the code, validates the ID token, and provisions the user on first login
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   code body dto.GoogleLoginRequest true "Authorization code from the OAuth redirect"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]string "Code exchange or token validation failed"
// @Router /auth/google [post]
func (h *authHandler) googleLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for googleLogin", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, err := h.googleService.ExchangeCodeForToken(c.Request.Context(), req.Code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		logger.Warn("Google token response missing id_token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google response missing ID token"})
		return
	}

	payload, err := h.googleService.ValidateGoogleIDToken(c.Request.Context(), rawIDToken)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)

	user, err := h.userService.GetOrCreateGoogleUser(c.Request.Context(), payload.Subject, email, name, emailVerified)
	if err != nil {
		respondError(c, err, "Failed to resolve Google user")
		return
	}

	resp, ok := h.loginResponse(c, user.UserID, user.CompanyID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerAuthRoutes sets up the public authentication routes with per-IP
// rate limiting on the credential endpoints.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.UserSvc, services.TokenSvc, services.GoogleOAuthSvc)

	// 5 requests per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/google", limitMiddleware, h.googleLogin)
	}
}
