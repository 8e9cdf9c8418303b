package recommend

import "errors"

var (
	// ErrInvalidContentID indicates the seed content id is malformed
	ErrInvalidContentID = errors.New("invalid content id")
)

// IsInvalidContentID checks if the error is an invalid content id error
func IsInvalidContentID(err error) bool {
	return errors.Is(err, ErrInvalidContentID)
}
