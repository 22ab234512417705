package usecase

import "errors"

var (
	ErrRunInProgress = errors.New("an ingestion run is already in progress")
	ErrNoProvider    = errors.New("no embedding provider configured")
	ErrNoCollectors  = errors.New("no collectors configured")
)

// errorStrings flattens joined errors into one message per failure.
func errorStrings(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, errorStrings(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
