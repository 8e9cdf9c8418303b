package catalog

import "errors"

// Custom catalog errors
var (
	// ErrContentNotFound indicates the referenced content does not exist in
	// the collection its type tag points at
	ErrContentNotFound = errors.New("content not found")

	// ErrInvalidContentType indicates the type tag is not one of
	// movie/series/live_channel
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidContentID indicates the identifier is not a valid catalog key
	ErrInvalidContentID = errors.New("invalid content id")

	// ErrNoContent indicates a catalog listing matched nothing
	ErrNoContent = errors.New("no content matched")
)

// IsContentNotFound checks if the error is a content not found error
func IsContentNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}

// IsInvalidContentType checks if the error is an invalid content type error
func IsInvalidContentType(err error) bool {
	return errors.Is(err, ErrInvalidContentType)
}

// IsInvalidContentID checks if the error is an invalid content id error
func IsInvalidContentID(err error) bool {
	return errors.Is(err, ErrInvalidContentID)
}

// IsNoContent checks if the error is a no content error
func IsNoContent(err error) bool {
	return errors.Is(err, ErrNoContent)
}
