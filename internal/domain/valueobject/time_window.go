package valueobject

import "time"

// TimeWindow is a half-open [From, To) instant range sent upstream with
// every series query.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}
