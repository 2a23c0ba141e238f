// Package period resolves the rolling time windows used to scope statistics,
// list filters and reports.
package period

import (
	"errors"
	"time"
)

var ErrUnknownPeriod = errors.New("unknown period")

// Codes accepted by Parse, in menu order.
var Codes = []string{"7d", "30d", "90d", "6m", "12m", "ytd", "all"}

// Window is a closed time interval. A zero Start means unbounded.
type Window struct {
	Code  string    `json:"code"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Parse resolves a period code relative to now.
func Parse(code string, now time.Time) (Window, error) {
	w := Window{Code: code, End: now}

	switch code {
	case "7d":
		w.Start = now.AddDate(0, 0, -7)
	case "30d":
		w.Start = now.AddDate(0, 0, -30)
	case "90d":
		w.Start = now.AddDate(0, 0, -90)
	case "6m":
		w.Start = now.AddDate(0, -6, 0)
	case "12m":
		w.Start = now.AddDate(0, -12, 0)
	case "ytd":
		w.Start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case "all":
		// unbounded start
	default:
		return Window{}, ErrUnknownPeriod
	}

	return w, nil
}

// Bounded reports whether the window has a lower bound.
func (w Window) Bounded() bool {
	return !w.Start.IsZero()
}

// Contains reports whether t falls inside the window. Zero times never match.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if w.Bounded() && t.Before(w.Start) {
		return false
	}
	return !t.After(w.End)
}
