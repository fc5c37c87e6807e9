package domain

import (
	"fmt"
	"math"
	"time"
)

// Epochs returns the epoch strings of all state vectors in feed order.
func (d *Dataset) Epochs() []string {
	epochs := make([]string, len(d.StateVectors))
	for i := range d.StateVectors {
		epochs[i] = d.StateVectors[i].Epoch
	}
	return epochs
}

// WindowEpochs selects a window of epochs: drop the first offset entries,
// then keep at most limit of the remainder. Both bounds clamp rather than
// error, and negative values count from the end, matching slice-style
// indexing (offset -2 means the last two, limit -1 means all but the
// last). A nil offset defaults to 0, a nil limit to everything after the
// offset. An empty window is ErrEmptyRange.
func WindowEpochs(epochs []string, offset, limit *int) ([]string, error) {
	start := clampIndex(len(epochs), valueOr(offset, 0))
	window := epochs[start:]

	end := len(window)
	if limit != nil {
		end = clampIndex(len(window), *limit)
	}
	window = window[:end]

	if len(window) == 0 {
		return nil, ErrEmptyRange
	}
	return window, nil
}

// clampIndex resolves a slice-style index against length n: negative
// values count from the end, and out-of-range values clamp to [0, n].
func clampIndex(n, idx int) int {
	if idx < 0 {
		idx += n
	}
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

func valueOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

// FindByEpoch returns the state vector whose epoch string matches exactly.
func (d *Dataset) FindByEpoch(epoch string) (StateVector, error) {
	for i := range d.StateVectors {
		if d.StateVectors[i].Epoch == epoch {
			return d.StateVectors[i], nil
		}
	}
	return StateVector{}, fmt.Errorf("%w: %q", ErrUnknownEpoch, epoch)
}

// NearestTo returns the state vector whose epoch is closest in time to
// the instant, along with the signed offset in seconds from that epoch to
// the instant (positive when the instant is after the epoch). Ties keep
// the earlier record. Returns ErrNoData when the dataset holds no state
// vectors.
func (d *Dataset) NearestTo(instant time.Time) (StateVector, float64, error) {
	if d == nil || len(d.StateVectors) == 0 {
		return StateVector{}, 0, ErrNoData
	}

	best := 0
	bestDistance := math.Abs(instant.Sub(d.StateVectors[0].EpochTime).Seconds())
	for i := 1; i < len(d.StateVectors); i++ {
		distance := math.Abs(instant.Sub(d.StateVectors[i].EpochTime).Seconds())
		if distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}

	offset := instant.Sub(d.StateVectors[best].EpochTime).Seconds()
	return d.StateVectors[best], offset, nil
}
