package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeed(t *testing.T) {
	tests := []struct {
		name     string
		velocity Velocity3
		want     float64
	}{
		{name: "unit x velocity", velocity: Velocity3{XDot: 1}, want: 1},
		{name: "y axis doubled", velocity: Velocity3{YDot: 2}, want: 2},
		{name: "z axis tripled", velocity: Velocity3{ZDot: 3}, want: 3},
		{name: "pythagorean triple", velocity: Velocity3{XDot: 3, YDot: 4}, want: 5},
		{name: "sign does not matter", velocity: Velocity3{XDot: -3, YDot: 4, ZDot: 0}, want: 5},
		{name: "at rest", velocity: Velocity3{}, want: 0},
		{name: "typical orbital velocity", velocity: Velocity3{XDot: -3.59, YDot: 4.2, ZDot: 5.3}, want: 7.656246},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speed, err := Speed(StateVector{Epoch: "2024-001T00:00:00Z", Velocity: tt.velocity})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, speed.Value, 1e-6)
			assert.Equal(t, "km/s", speed.Units)
		})
	}
}

func TestSpeed_ExactForAxisVelocities(t *testing.T) {
	// Single-axis magnitudes must come back bit-exact, not approximately.
	for want, velocity := range map[float64]Velocity3{
		1: {XDot: 1},
		2: {YDot: 2},
		3: {ZDot: 3},
	} {
		speed, err := Speed(StateVector{Velocity: velocity})
		require.NoError(t, err)
		assert.Equal(t, want, speed.Value)
	}
}

func TestSpeed_NonFinite(t *testing.T) {
	tests := []struct {
		name     string
		velocity Velocity3
	}{
		{name: "NaN component", velocity: Velocity3{XDot: math.NaN()}},
		{name: "positive infinity", velocity: Velocity3{YDot: math.Inf(1)}},
		{name: "negative infinity", velocity: Velocity3{ZDot: math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Speed(StateVector{Epoch: "2024-001T00:00:00Z", Velocity: tt.velocity})
			require.ErrorIs(t, err, ErrInvalidEpoch)
		})
	}
}

func TestLocationOf(t *testing.T) {
	noon := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		position Vector3
		epoch    time.Time
		wantLat  float64
		wantLon  float64
		wantAlt  float64
	}{
		{
			name:     "over the equator at noon",
			position: Vector3{X: 6771},
			epoch:    noon,
			wantLat:  0,
			wantLon:  14, // calibration offset only
			wantAlt:  400,
		},
		{
			name:     "above the north pole",
			position: Vector3{Z: 7000},
			epoch:    noon,
			wantLat:  90,
			wantLon:  14,
			wantAlt:  629,
		},
		{
			name:     "forty-five degrees north",
			position: Vector3{X: 4000, Y: 0, Z: 4000},
			epoch:    noon,
			wantLat:  45,
			wantLon:  14,
			wantAlt:  4000*math.Sqrt2 - 6371,
		},
		{
			name:     "rotation since noon shifts longitude west",
			position: Vector3{X: 6771},
			epoch:    time.Date(2024, time.January, 1, 13, 30, 0, 0, time.UTC),
			wantLat:  0,
			wantLon:  -8.5, // -1.5h * 15°/h + 14°
			wantAlt:  400,
		},
		{
			name:     "minutes count toward the rotation",
			position: Vector3{X: 6771},
			epoch:    time.Date(2024, time.January, 1, 12, 30, 0, 0, time.UTC),
			wantLat:  0,
			wantLon:  6.5,
			wantAlt:  400,
		},
		{
			name:     "midnight correction wraps past the antimeridian",
			position: Vector3{X: 6771},
			epoch:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantLat:  0,
			wantLon:  -166, // 0 + 180 + 14, wrapped
			wantAlt:  400,
		},
		{
			name:     "late evening wraps the other way",
			position: Vector3{X: 6771 * math.Cos(-40*math.Pi/180), Y: 6771 * math.Sin(-40*math.Pi/180)},
			epoch:    time.Date(2024, time.January, 1, 23, 0, 0, 0, time.UTC),
			wantLat:  0,
			wantLon:  169, // -40 - 165 + 14, wrapped
			wantAlt:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LocationOf(StateVector{
				Epoch:     "2024-001T00:00:00Z",
				EpochTime: tt.epoch,
				Position:  tt.position,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLat, loc.Latitude, 1e-9)
			assert.InDelta(t, tt.wantLon, loc.Longitude, 1e-9)
			assert.InDelta(t, tt.wantAlt, loc.Altitude.Value, 1e-9)
			assert.Equal(t, "km", loc.Altitude.Units)
			assert.Equal(t, UnknownPlace, loc.Place)
		})
	}
}

// Whatever the epoch and orbital phase, the corrected longitude must land
// inside [-180, 180] after the single wrap.
func TestLocationOf_LongitudeAlwaysInRange(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 17, 59} {
			for angle := 0; angle < 360; angle += 15 {
				rad := float64(angle) * math.Pi / 180
				vec := StateVector{
					EpochTime: time.Date(2024, time.February, 15, hour, minute, 0, 0, time.UTC),
					Position:  Vector3{X: 6789 * math.Cos(rad), Y: 6789 * math.Sin(rad), Z: 100},
				}
				loc, err := LocationOf(vec)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, loc.Longitude, -180.0, "hour=%d minute=%d angle=%d", hour, minute, angle)
				assert.LessOrEqual(t, loc.Longitude, 180.0, "hour=%d minute=%d angle=%d", hour, minute, angle)
			}
		}
	}
}

func TestLocationOf_NonFinite(t *testing.T) {
	tests := []struct {
		name     string
		position Vector3
	}{
		{name: "NaN component", position: Vector3{X: math.NaN()}},
		{name: "infinite component", position: Vector3{Z: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LocationOf(StateVector{Epoch: "2024-001T00:00:00Z", Position: tt.position})
			require.ErrorIs(t, err, ErrInvalidEpoch)
		})
	}
}

func TestSnapshotAt(t *testing.T) {
	ds := tripleDataset(t)
	instant := time.Date(2024, time.January, 1, 0, 10, 30, 0, time.UTC)

	state, err := ds.SnapshotAt(instant)
	require.NoError(t, err)

	assert.Equal(t, "2024-001T00:10:00Z", state.ClosestEpoch)
	assert.InDelta(t, 30, state.SecondsFromNow, 1e-9)
	assert.Equal(t, 2.0, state.Speed.Value)
	assert.Equal(t, "km/s", state.Speed.Units)
	assert.InDelta(t, 0, state.Location.Latitude, 1e-9)
	assert.InDelta(t, 400, state.Location.Altitude.Value, 1e-9)
	assert.Equal(t, UnknownPlace, state.Location.Place)
}

func TestSnapshotAt_NoData(t *testing.T) {
	ds := &Dataset{}
	_, err := ds.SnapshotAt(time.Now())
	require.ErrorIs(t, err, ErrNoData)
}

func TestSnapshotAt_InvalidRecord(t *testing.T) {
	ds := &Dataset{StateVectors: []StateVector{{
		Epoch:     "2024-001T00:00:00Z",
		EpochTime: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Position:  Vector3{X: math.NaN()},
	}}}

	_, err := ds.SnapshotAt(time.Date(2024, time.January, 1, 0, 0, 5, 0, time.UTC))
	require.ErrorIs(t, err, ErrInvalidEpoch)
}

func TestCurrentSnapshot_UsesInjectedClock(t *testing.T) {
	fakeNow := time.Date(2024, time.January, 1, 0, 10, 30, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fakeNow))
	defer SetClock(nil)

	ds := tripleDataset(t)
	state, err := ds.CurrentSnapshot()
	require.NoError(t, err)

	assert.Equal(t, "2024-001T00:10:00Z", state.ClosestEpoch)
	assert.InDelta(t, 30, state.SecondsFromNow, 1e-9)
	assert.Equal(t, 2.0, state.Speed.Value)
}
