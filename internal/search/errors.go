package search

import "errors"

var (
	// ErrBlankQuery indicates the search query was empty or whitespace
	ErrBlankQuery = errors.New("search query must not be blank")

	// ErrEntryNotFound indicates no search history entry matched the id for
	// this user
	ErrEntryNotFound = errors.New("search history entry not found")
)

// IsBlankQuery checks if the error is a blank query error
func IsBlankQuery(err error) bool {
	return errors.Is(err, ErrBlankQuery)
}

// IsEntryNotFound checks if the error is an entry not found error
func IsEntryNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}
