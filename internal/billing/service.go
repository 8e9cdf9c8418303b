package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/skyview-tv/skyview/internal/config"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// Service handles packages, Stripe checkout, and subscription lifecycle
type Service struct {
	repos *db.Repositories
	cfg   config.StripeConfig
}

// NewService creates a new billing service and sets the Stripe API key
func NewService(repos *db.Repositories, cfg config.StripeConfig) *Service {
	if cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
	}
	return &Service{repos: repos, cfg: cfg}
}

// ListPackages returns the purchasable packages for a user. The free trial
// is hidden once the user has ever held a subscription, in any state.
func (s *Service) ListPackages(ctx context.Context, userID uuid.UUID) ([]*models.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	hasAny, err := s.repos.Subscriptions.HasAnyByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriptions: %w", err)
	}

	packages, err := s.repos.Packages.List(ctx, !hasAny)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

// StartCheckout begins a purchase. A free-trial package activates
// immediately without touching Stripe; paid packages get a Stripe Checkout
// session and the subscription is created by the webhook once payment
// completes. Returns the URL to send the user to, empty for trials.
func (s *Service) StartCheckout(ctx context.Context, userID, packageID uuid.UUID) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	pkg, err := s.repos.Packages.GetByID(ctx, packageID)
	if err != nil {
		if db.IsNotFound(err) {
			return "", ErrPackageNotFound
		}
		return "", fmt.Errorf("failed to load package: %w", err)
	}

	if pkg.IsFreeTrial {
		return "", s.startTrial(ctx, userID, pkg)
	}

	if s.cfg.SecretKey == "" {
		return "", ErrNotConfigured
	}

	interval := stripe.PriceRecurringIntervalMonth
	if pkg.Interval == models.IntervalYear {
		interval = stripe.PriceRecurringIntervalYear
	}

	frontend := strings.TrimRight(s.cfg.FrontendURL, "/")
	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(pkg.Price * 100)),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(string(interval)),
					},
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(pkg.Name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(frontend + "/subscribe/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(frontend + "/subscribe/cancel"),
		ClientReferenceID: stripe.String(userID.String()),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id":    userID.String(),
				"package_id": pkg.ID.String(),
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("package_id", pkg.ID.String()).
		Str("session_id", sess.ID).
		Msg("Checkout session created")
	return sess.URL, nil
}

// startTrial activates the free trial directly. One trial per user, ever.
func (s *Service) startTrial(ctx context.Context, userID uuid.UUID, pkg *models.Package) error {
	hasAny, err := s.repos.Subscriptions.HasAnyByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check subscriptions: %w", err)
	}
	if hasAny {
		return ErrTrialAlreadyUsed
	}

	now := time.Now().UTC()
	end := now.AddDate(0, 0, pkg.TrialDurationDays)
	sub := &models.Subscription{
		ID:          uuid.New(),
		UserID:      userID,
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		Status:      models.SubscriptionStatusActive,
		StartDate:   now,
		EndDate:     &end,
		CreatedAt:   now,
	}
	if err := s.repos.Subscriptions.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to start trial: %w", err)
	}

	if err := s.markSubscribed(ctx, userID); err != nil {
		return err
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("package_id", pkg.ID.String()).
		Msg("Free trial started")
	return nil
}

// HandleWebhook verifies and processes a Stripe webhook delivery. Processing
// is idempotent: Stripe redelivers events, and a seen event id is
// acknowledged without acting twice.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.WebhookSecret)
	if err != nil {
		return ErrBadSignature
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	processed, err := s.repos.StripeEvents.IsProcessed(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("failed to check event: %w", err)
	}
	if processed {
		logger.Log.Debug().Str("event_id", event.ID).Msg("Webhook event already processed")
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		if err := s.onCheckoutCompleted(ctx, event); err != nil {
			return err
		}
	default:
		logger.Log.Debug().Str("type", string(event.Type)).Msg("Ignoring webhook event")
	}

	return s.repos.StripeEvents.MarkProcessed(ctx, event.ID)
}

// onCheckoutCompleted creates the subscription row a finished checkout paid
// for and flags the user as subscribed
func (s *Service) onCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	userID, err := uuid.Parse(sess.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("checkout session %s has no valid user reference", sess.ID)
	}

	var packageIDRaw string
	if sess.Subscription != nil && sess.Subscription.Metadata != nil {
		packageIDRaw = sess.Subscription.Metadata["package_id"]
	}
	packageID, err := uuid.Parse(packageIDRaw)
	if err != nil {
		return fmt.Errorf("checkout session %s has no valid package reference", sess.ID)
	}

	pkg, err := s.repos.Packages.GetByID(ctx, packageID)
	if err != nil {
		return fmt.Errorf("failed to load package: %w", err)
	}

	now := time.Now().UTC()
	var end time.Time
	if pkg.Interval == models.IntervalYear {
		end = now.AddDate(1, 0, 0)
	} else {
		end = now.AddDate(0, 1, 0)
	}

	var paymentIntent *string
	if sess.PaymentIntent != nil {
		paymentIntent = &sess.PaymentIntent.ID
	}

	sub := &models.Subscription{
		ID:              uuid.New(),
		UserID:          userID,
		PackageID:       pkg.ID,
		PackageName:     pkg.Name,
		Status:          models.SubscriptionStatusActive,
		StartDate:       now,
		EndDate:         &end,
		PaymentIntentID: paymentIntent,
		CreatedAt:       now,
	}
	if err := s.repos.Subscriptions.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := s.markSubscribed(ctx, userID); err != nil {
		return err
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("package_id", pkg.ID.String()).
		Msg("Subscription activated")
	return nil
}

// GetSubscription returns the user's active subscription
func (s *Service) GetSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	sub, err := s.repos.Subscriptions.GetActiveByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return sub, nil
}

// CancelSubscription cancels the user's subscription. Access continues
// until the paid-through end date; only the subscribed flag and status flip.
func (s *Service) CancelSubscription(ctx context.Context, subscriptionID, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	if err := s.repos.Subscriptions.Cancel(ctx, subscriptionID, userID); err != nil {
		if db.IsNotFound(err) {
			return ErrSubscriptionNotFound
		}
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	user.IsSubscribed = false
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("subscription_id", subscriptionID.String()).
		Msg("Subscription canceled")
	return nil
}

// ChangePackage switches the active subscription to a different paid
// package. The new end date restarts the billing interval from now.
func (s *Service) ChangePackage(ctx context.Context, subscriptionID, userID, packageID uuid.UUID) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	pkg, err := s.repos.Packages.GetByID(ctx, packageID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to load package: %w", err)
	}
	if pkg.IsFreeTrial {
		return nil, ErrTrialAlreadyUsed
	}

	now := time.Now().UTC()
	var end time.Time
	if pkg.Interval == models.IntervalYear {
		end = now.AddDate(1, 0, 0)
	} else {
		end = now.AddDate(0, 1, 0)
	}

	if err := s.repos.Subscriptions.UpdatePackage(ctx, subscriptionID, userID, pkg, &end); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to change package: %w", err)
	}

	sub, err := s.repos.Subscriptions.GetByIDAndUser(ctx, subscriptionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload subscription: %w", err)
	}
	return sub, nil
}

func (s *Service) markSubscribed(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	user.IsSubscribed = true
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
