package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/models"
)

// PackageRepository handles database operations for subscription packages
type PackageRepository struct {
	db *DB
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create inserts a new package
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	result := r.db.WithContext(ctx).Create(pkg)
	if result.Error != nil {
		return fmt.Errorf("failed to create package: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a package by UUID
func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	var pkg models.Package
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&pkg)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &pkg, nil
}

// List retrieves all packages, cheapest first. When includeTrial is false the
// free-trial package is hidden.
func (r *PackageRepository) List(ctx context.Context, includeTrial bool) ([]*models.Package, error) {
	query := r.db.WithContext(ctx).Model(&models.Package{})
	if !includeTrial {
		query = query.Where("is_free_trial = ?", false)
	}

	var packages []*models.Package
	result := query.Order("price ASC").Find(&packages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list packages: %w", MapGormError(result.Error))
	}
	return packages, nil
}

// SubscriptionRepository handles database operations for subscriptions
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	result := r.db.WithContext(ctx).Create(sub)
	if result.Error != nil {
		return fmt.Errorf("failed to create subscription: %w", MapGormError(result.Error))
	}
	return nil
}

// GetActiveByUser retrieves the user's active subscription
func (r *SubscriptionRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID.String(), models.SubscriptionStatusActive).
		First(&sub)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &sub, nil
}

// GetByIDAndUser retrieves one subscription scoped by owner
func (r *SubscriptionRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id.String(), userID.String()).
		First(&sub)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &sub, nil
}

// HasAnyByUser reports whether the user has ever held a subscription in any
// state. Used to hide the free trial from returning customers.
func (r *SubscriptionRepository) HasAnyByUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ?", userID.String()).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to count subscriptions: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// Cancel marks the subscription canceled and stamps the cancellation time
func (r *SubscriptionRepository) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ? AND user_id = ? AND status = ?", id.String(), userID.String(), models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":            models.SubscriptionStatusCanceled,
			"cancellation_date": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to cancel subscription: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePackage switches the subscription to a different package
func (r *SubscriptionRepository) UpdatePackage(ctx context.Context, id, userID uuid.UUID, pkg *models.Package, endDate *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ? AND user_id = ? AND status = ?", id.String(), userID.String(), models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"package_id":   pkg.ID.String(),
			"package_name": pkg.Name,
			"end_date":     endDate,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StripeEventRepository tracks processed webhook event ids for idempotency
type StripeEventRepository struct {
	db *DB
}

// NewStripeEventRepository creates a new stripe event repository
func NewStripeEventRepository(db *DB) *StripeEventRepository {
	return &StripeEventRepository{db: db}
}

// IsProcessed reports whether the event id has already been handled
func (r *StripeEventRepository) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.StripeEvent{}).
		Where("event_id = ?", eventID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check stripe event: %w", MapGormError(result.Error))
	}
	return count > 0, nil
}

// MarkProcessed records the event id. Re-marking an already-processed event
// is not an error.
func (r *StripeEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	event := &models.StripeEvent{EventID: eventID, ProcessedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil && !IsDuplicate(MapGormError(err)) {
		return fmt.Errorf("failed to mark stripe event: %w", MapGormError(err))
	}
	return nil
}
