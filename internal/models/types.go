package models

// ContentType tags which catalog collection a content reference points at.
type ContentType string

// Content type constants
const (
	ContentTypeMovie       ContentType = "movie"
	ContentTypeSeries      ContentType = "series"
	ContentTypeLiveChannel ContentType = "live_channel"
)

// Valid reports whether t is one of the three known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMovie, ContentTypeSeries, ContentTypeLiveChannel:
		return true
	}
	return false
}

// Subscription status constants
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

// Billing interval constants
const (
	IntervalTrial = "trial"
	IntervalMonth = "month"
	IntervalYear  = "year"
)
