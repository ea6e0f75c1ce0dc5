package rating

import "fmt"

// UnknownStatError is returned when a stat line holds a stat that is not in
// the scoring rules.
type UnknownStatError struct {
	Stat  string
	Rules string
}

func (e *UnknownStatError) Error() string {
	return fmt.Sprintf("unknown stat %q for %s scoring", e.Stat, e.Rules)
}

// InsufficientDataError is returned when a category does not have enough
// scored players to reach its baseline index.
type InsufficientDataError struct {
	Category  string
	Index     int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: baseline index %d needs %d scored players, have %d",
		e.Category, e.Index, e.Index+1, e.Available)
}
