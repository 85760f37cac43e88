package filter

import "fmt"

// InvalidPatternError is returned when a filter pattern is not a valid glob.
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid filter pattern %q", e.Pattern)
}
