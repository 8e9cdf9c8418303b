package history

import "errors"

var (
	// ErrInvalidContentType indicates the type tag is not a known content type
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidProgress indicates progress or duration is negative
	ErrInvalidProgress = errors.New("progress and duration must not be negative")

	// ErrContentNotFound indicates the watched content does not exist in the
	// catalog collection the type tag names
	ErrContentNotFound = errors.New("content not found")

	// ErrEntryNotFound indicates no history entry matched the id for this user
	ErrEntryNotFound = errors.New("history entry not found")
)

// IsInvalidContentType checks if the error is an invalid content type error
func IsInvalidContentType(err error) bool {
	return errors.Is(err, ErrInvalidContentType)
}

// IsInvalidProgress checks if the error is an invalid progress error
func IsInvalidProgress(err error) bool {
	return errors.Is(err, ErrInvalidProgress)
}

// IsContentNotFound checks if the error is a content not found error
func IsContentNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}

// IsEntryNotFound checks if the error is an entry not found error
func IsEntryNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}
