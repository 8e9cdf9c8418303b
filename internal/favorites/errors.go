package favorites

import "errors"

var (
	// ErrInvalidContentType indicates the type tag is not a known content type
	ErrInvalidContentType = errors.New("invalid content type")
	// ErrContentNotFound indicates the content does not exist in the catalog collection the type tag names
	ErrContentNotFound = errors.New("content not found")
)

// IsInvalidContentType checks if the error is an invalid content type error
func IsInvalidContentType(err error) bool {
	return errors.Is(err, ErrInvalidContentType)
}

// IsContentNotFound checks if the error is a content not found error
func IsContentNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}
