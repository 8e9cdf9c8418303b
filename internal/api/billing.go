package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/auth"
	"github.com/skyview-tv/skyview/internal/billing"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/middleware"
	"github.com/skyview-tv/skyview/internal/models"
)

// maxWebhookBody caps the webhook payload size
const maxWebhookBody = 65536

// CheckoutRequest represents a request to start a purchase
type CheckoutRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

// CheckoutResponse carries the Stripe-hosted checkout URL. For free trials
// the subscription is already active and the URL is empty.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url,omitempty"`
	Status      string `json:"status"`
}

// PackageListResponse represents the purchasable packages
type PackageListResponse struct {
	Packages []*models.Package `json:"packages"`
}

// ChangePackageRequest represents a request to switch packages
type ChangePackageRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

// BillingHandler handles billing API requests
type BillingHandler struct {
	service *billing.Service
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service *billing.Service) *BillingHandler {
	return &BillingHandler{service: service}
}

// ListPackages handles GET /billing/packages
func (h *BillingHandler) ListPackages(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	packages, err := h.service.ListPackages(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list packages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to list packages"})
		return
	}

	c.JSON(http.StatusOK, PackageListResponse{Packages: packages})
}

// Checkout handles POST /billing/checkout
func (h *BillingHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid package ID format"})
		return
	}

	checkoutURL, err := h.service.StartCheckout(c.Request.Context(), userID, packageID)
	if err != nil {
		switch {
		case billing.IsPackageNotFound(err):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Package not found"})
		case billing.IsTrialAlreadyUsed(err):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "trial_used", Message: "Free trial already used"})
		case billing.IsNotConfigured(err):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "not_configured", Message: "Billing is not configured"})
		default:
			logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Checkout failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "checkout_failed", Message: "Failed to start checkout"})
		}
		return
	}

	status := "checkout_created"
	if checkoutURL == "" {
		status = "trial_started"
	}
	c.JSON(http.StatusOK, CheckoutResponse{CheckoutURL: checkoutURL, Status: status})
}

// Webhook handles POST /billing/webhook. This route is unauthenticated; the
// Stripe signature is the authentication.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_body", Message: "Failed to read request body"})
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		if billing.IsBadSignature(err) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_signature", Message: "Webhook signature verification failed"})
			return
		}

		logger.Log.Error().Err(err).Msg("Webhook processing failed")
		// Non-2xx makes Stripe redeliver, which is what we want for
		// transient store faults
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "webhook_failed", Message: "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// GetSubscription handles GET /billing/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	sub, err := h.service.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		if billing.IsSubscriptionNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "No active subscription"})
			return
		}

		logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load subscription")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// CancelSubscription handles DELETE /billing/subscription/:id
func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid subscription ID format"})
		return
	}

	if err := h.service.CancelSubscription(c.Request.Context(), subscriptionID, userID); err != nil {
		if billing.IsSubscriptionNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Subscription not found"})
			return
		}

		logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to cancel subscription")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "cancel_failed", Message: "Failed to cancel subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "canceled"})
}

// ChangePackage handles PUT /billing/subscription/:id
func (h *BillingHandler) ChangePackage(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "Authentication required"})
		return
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid subscription ID format"})
		return
	}

	var req ChangePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid package ID format"})
		return
	}

	sub, err := h.service.ChangePackage(c.Request.Context(), subscriptionID, userID, packageID)
	if err != nil {
		switch {
		case billing.IsPackageNotFound(err):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Package not found"})
		case billing.IsSubscriptionNotFound(err):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Subscription not found"})
		case billing.IsTrialAlreadyUsed(err):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_package", Message: "Cannot switch to the free trial"})
		default:
			logger.Log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to change package")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "update_failed", Message: "Failed to change package"})
		}
		return
	}

	c.JSON(http.StatusOK, sub)
}

// SetupBillingRoutes registers billing routes
func SetupBillingRoutes(apiGroup *gin.RouterGroup, service *billing.Service, authService *auth.Service) {
	handler := NewBillingHandler(service)

	apiGroup.POST("/billing/webhook", handler.Webhook)

	authed := apiGroup.Group("")
	authed.Use(middleware.RequireAuth(authService))
	authed.GET("/billing/packages", handler.ListPackages)
	authed.POST("/billing/checkout", handler.Checkout)
	authed.GET("/billing/subscription", handler.GetSubscription)
	authed.DELETE("/billing/subscription/:id", handler.CancelSubscription)
	authed.PUT("/billing/subscription/:id", handler.ChangePackage)
}
