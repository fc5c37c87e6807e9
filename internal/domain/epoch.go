package domain

import (
	"fmt"
	"time"
)

// epochLayout matches OEM day-of-year epochs such as 2024-045T12:00:00Z.
// "002" is the zero-padded day-of-year verb. time.Parse consumes an
// optional fractional-second run after the seconds field even when the
// layout omits one, so the single layout covers both the feed's
// millisecond form and the bare-second form used in queries.
const epochLayout = "2006-002T15:04:05Z"

// ParseEpoch parses an OEM epoch string into a UTC instant.
func ParseEpoch(epoch string) (time.Time, error) {
	t, err := time.Parse(epochLayout, epoch)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse epoch %q: %w", epoch, err)
	}
	return t.UTC(), nil
}
