package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyview-tv/skyview/internal/auth"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/middleware"
	"github.com/skyview-tv/skyview/internal/models"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VerifyEmailRequest represents an email verification request
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordRequest represents a password reset link request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	IsVerified   bool      `json:"is_verified"`
	IsSubscribed bool      `json:"is_subscribed"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	User   *UserResponse   `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// AuthHandler handles account and session API requests
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// toUserResponse converts a user model to API response format
func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		IsVerified:   user.IsVerified,
		IsSubscribed: user.IsSubscribed,
		CreatedAt:    user.CreatedAt,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if auth.IsEmailTaken(err) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "email_taken", Message: "Email is already registered"})
			return
		}
		if auth.IsWeakPassword(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "weak_password", Message: "Password must be at least 8 characters"})
			return
		}

		logger.Log.Error().Err(err).Msg("Registration failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "register_failed", Message: "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// VerifyEmail handles POST /auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		if auth.IsInvalidToken(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_token", Message: "Invalid or expired verification token"})
			return
		}

		logger.Log.Error().Err(err).Msg("Email verification failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "verify_failed", Message: "Email verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if auth.IsInvalidCredentials(err) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_credentials", Message: "Invalid email or password"})
			return
		}
		if auth.IsNotVerified(err) {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "not_verified",
				Message: "Email not verified. A new verification email has been sent.",
			})
			return
		}

		logger.Log.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "login_failed", Message: "Login failed"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{User: toUserResponse(user), Tokens: tokens})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if auth.IsInvalidToken(err) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_token", Message: "Invalid or expired refresh token"})
			return
		}

		logger.Log.Error().Err(err).Msg("Token refresh failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "refresh_failed", Message: "Token refresh failed"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Logout failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "logout_failed", Message: "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		if auth.IsUserNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "User not found"})
			return
		}

		logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PUT /auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req.Name)
	if err != nil {
		if auth.IsUserNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "User not found"})
			return
		}

		logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Profile update failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "update_failed", Message: "Profile update failed"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		logger.Log.Error().Err(err).Msg("Forgot password failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "reset_failed", Message: "Failed to send reset email"})
		return
	}

	// Same answer whether or not the email exists
	c.JSON(http.StatusOK, gin.H{"status": "reset_email_sent"})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if auth.IsInvalidToken(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_token", Message: "Invalid or expired reset token"})
			return
		}
		if auth.IsWeakPassword(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "weak_password", Message: "Password must be at least 8 characters"})
			return
		}

		logger.Log.Error().Err(err).Msg("Password reset failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "reset_failed", Message: "Password reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password_reset"})
}

// SetupAuthRoutes registers account and session routes
func SetupAuthRoutes(apiGroup *gin.RouterGroup, service *auth.Service) {
	handler := NewAuthHandler(service)

	apiGroup.POST("/auth/register", handler.Register)
	apiGroup.POST("/auth/verify-email", handler.VerifyEmail)
	apiGroup.POST("/auth/login", handler.Login)
	apiGroup.POST("/auth/refresh", handler.Refresh)
	apiGroup.POST("/auth/forgot-password", handler.ForgotPassword)
	apiGroup.POST("/auth/reset-password", handler.ResetPassword)

	authed := apiGroup.Group("")
	authed.Use(middleware.RequireAuth(service))
	authed.POST("/auth/logout", handler.Logout)
	authed.GET("/auth/me", handler.Me)
	authed.PUT("/auth/me", handler.UpdateProfile)
}
