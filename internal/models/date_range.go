package models

import (
	"errors"
	"time"
)

// DefaultHistoryWindow is the range history mode opens with
const DefaultHistoryWindow = 30 * 24 * time.Hour

var (
	ErrIncompleteRange = errors.New("both range bounds are required")
	ErrInvertedRange   = errors.New("range start is after range end")
)

// DateRange bounds a transaction history query; both ends inclusive
type DateRange struct {
	Start time.Time
	End   time.Time
}

// LastWindow returns the range of the given length ending at now
func LastWindow(now time.Time, window time.Duration) DateRange {
	return DateRange{Start: now.Add(-window), End: now}
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Validate requires both bounds to be present and ordered
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrIncompleteRange
	}
	if r.Start.After(r.End) {
		return ErrInvertedRange
	}
	return nil
}

// Normalized returns the range in UTC, the canonical form sent to the backend
func (r DateRange) Normalized() DateRange {
	return DateRange{Start: r.Start.UTC(), End: r.End.UTC()}
}

// FormatInstant renders t as the canonical RFC 3339 UTC instant. Sub-second
// precision is kept so a range ending now covers entries made this second.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
