package models

import (
	"time"

	"github.com/google/uuid"
)

// Package represents a purchasable subscription plan
type Package struct {
	ID                uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name              string    `json:"name" gorm:"type:text;not null;column:name" validate:"required"`
	Price             float64   `json:"price" gorm:"type:real;not null;column:price" validate:"gte=0"`
	Interval          string    `json:"interval" gorm:"type:text;not null;column:interval"` // trial | month | year
	Description       string    `json:"description" gorm:"type:text;not null;default:'';column:description"`
	Features          string    `json:"features" gorm:"type:text;not null;default:'';column:features"` // newline-separated
	IsFreeTrial       bool      `json:"is_free_trial" gorm:"type:integer;not null;default:0;column:is_free_trial"`
	TrialDurationDays int       `json:"trial_duration_days" gorm:"type:integer;not null;default:0;column:trial_duration_days"`
}

// Subscription represents a user's purchased (or trialed) package
type Subscription struct {
	ID               uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:text;not null;index;column:user_id"`
	PackageID        uuid.UUID  `json:"package_id" gorm:"type:text;not null;column:package_id"`
	PackageName      string     `json:"package_name" gorm:"type:text;not null;default:'';column:package_name"`
	Status           string     `json:"status" gorm:"type:text;not null;column:status"` // active | canceled | expired
	StartDate        time.Time  `json:"start_date" gorm:"type:datetime;not null;column:start_date"`
	EndDate          *time.Time `json:"end_date,omitempty" gorm:"type:datetime;column:end_date"`
	PaymentIntentID  *string    `json:"payment_intent_id,omitempty" gorm:"type:text;column:payment_intent_id"`
	CancellationDate *time.Time `json:"cancellation_date,omitempty" gorm:"type:datetime;column:cancellation_date"`
	CreatedAt        time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// StripeEvent marks a webhook event as processed so redeliveries are no-ops
type StripeEvent struct {
	EventID     string    `json:"event_id" gorm:"type:text;primaryKey;column:event_id"`
	ProcessedAt time.Time `json:"processed_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:processed_at"`
}
