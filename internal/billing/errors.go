package billing

import "errors"

var (
	// ErrPackageNotFound indicates no package matched the id
	ErrPackageNotFound = errors.New("package not found")

	// ErrSubscriptionNotFound indicates no active subscription matched
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrTrialAlreadyUsed indicates the user has already held a subscription
	// and cannot start the free trial
	ErrTrialAlreadyUsed = errors.New("free trial already used")

	// ErrNotConfigured indicates the payment gateway keys are missing
	ErrNotConfigured = errors.New("billing is not configured")

	// ErrBadSignature indicates the webhook signature did not verify
	ErrBadSignature = errors.New("invalid webhook signature")
)

// IsPackageNotFound checks if the error is a package not found error
func IsPackageNotFound(err error) bool {
	return errors.Is(err, ErrPackageNotFound)
}

// IsSubscriptionNotFound checks if the error is a subscription not found error
func IsSubscriptionNotFound(err error) bool {
	return errors.Is(err, ErrSubscriptionNotFound)
}

// IsTrialAlreadyUsed checks if the error is a trial already used error
func IsTrialAlreadyUsed(err error) bool {
	return errors.Is(err, ErrTrialAlreadyUsed)
}

// IsNotConfigured checks if the error is a not configured error
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsBadSignature checks if the error is a bad signature error
func IsBadSignature(err error) bool {
	return errors.Is(err, ErrBadSignature)
}
