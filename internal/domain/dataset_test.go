package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The JSON shapes below are the API wire format; handlers marshal these
// types directly.

func TestStateVectorJSON(t *testing.T) {
	vec := StateVector{
		Epoch:     "2024-046T12:00:00.000Z",
		EpochTime: time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC),
		Position:  Vector3{X: 5994.25, Y: 1978.5, Z: -2499.75, Units: "km"},
		Velocity:  Velocity3{XDot: -3.5, YDot: 4.25, ZDot: 5.75, Units: "km/s"},
	}

	data, err := json.Marshal(vec)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"epoch": "2024-046T12:00:00.000Z",
		"position": {"x": 5994.25, "y": 1978.5, "z": -2499.75, "units": "km"},
		"velocity": {"x_dot": -3.5, "y_dot": 4.25, "z_dot": 5.75, "units": "km/s"}
	}`, string(data))
}

func TestDatasetJSON_OmitsProvenance(t *testing.T) {
	ds := &Dataset{
		Header:    Block{"ORIGINATOR": "NASA/JSC"},
		Metadata:  Block{"OBJECT_NAME": "ISS"},
		Comments:  []string{"Units are in kg and m^2"},
		Source:    "https://example.com/feed.xml",
		FetchedAt: time.Now(),
	}

	data, err := json.Marshal(ds)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "header")
	assert.Contains(t, decoded, "metadata")
	assert.Contains(t, decoded, "comments")
	assert.Contains(t, decoded, "state_vectors")
	assert.NotContains(t, decoded, "Source")
	assert.NotContains(t, decoded, "FetchedAt")
}

func TestLocationJSON(t *testing.T) {
	loc := Location{
		Latitude:  21.5,
		Longitude: -160.25,
		Altitude:  Measurement{Value: 418.5, Units: "km"},
		Place:     UnknownPlace,
	}

	data, err := json.Marshal(loc)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"latitude": 21.5,
		"longitude": -160.25,
		"altitude": {"value": 418.5, "units": "km"},
		"place": "over the ocean"
	}`, string(data))
}

func TestNowStateJSON(t *testing.T) {
	state := NowState{
		ClosestEpoch:   "2024-046T12:04:00.000Z",
		SecondsFromNow: -30.5,
		Location: Location{
			Latitude:  1.25,
			Longitude: 2.5,
			Altitude:  Measurement{Value: 418, Units: "km"},
			Place:     "Pacific Ocean",
		},
		Speed: Measurement{Value: 7.66, Units: "km/s"},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"closest_epoch": "2024-046T12:04:00.000Z",
		"seconds_from_now": -30.5,
		"location": {
			"latitude": 1.25,
			"longitude": 2.5,
			"altitude": {"value": 418, "units": "km"},
			"place": "Pacific Ocean"
		},
		"speed": {"value": 7.66, "units": "km/s"}
	}`, string(data))
}
