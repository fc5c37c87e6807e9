package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	// earthRadiusKm is the mean Earth radius of the spherical model used
	// for altitude.
	earthRadiusKm = 6371.0

	// earthRotationDegPerHour is Earth's rotation rate (360° / 24h) used
	// to convert the inertial-frame angle to an Earth-fixed longitude.
	earthRotationDegPerHour = 360.0 / 24.0

	// longitudeCalibrationDeg is a fixed empirical offset that aligns the
	// simplified longitude model with the station's observed ground
	// track. Calibrated against live tracking data, not derived.
	longitudeCalibrationDeg = 14.0
)

// Speed returns the instantaneous speed of a state vector: the Euclidean
// norm of its velocity components, in km/s. A record with non-finite
// components is ErrInvalidEpoch.
func Speed(vec StateVector) (Measurement, error) {
	v := vec.Velocity
	if !isFinite(v.XDot) || !isFinite(v.YDot) || !isFinite(v.ZDot) {
		return Measurement{}, fmt.Errorf("%w: %s: velocity has a non-finite component", ErrInvalidEpoch, vec.Epoch)
	}
	speed := math.Sqrt(v.XDot*v.XDot + v.YDot*v.YDot + v.ZDot*v.ZDot)
	return Measurement{Value: speed, Units: unitsKmPerSec}, nil
}

// LocationOf derives the geographic position under a state vector using
// the spherical-Earth model described in the package documentation. The
// result's Place is the UnknownPlace sentinel; callers resolve a real
// name via ResolvePlace. A record with non-finite components is
// ErrInvalidEpoch.
func LocationOf(vec StateVector) (Location, error) {
	p := vec.Position
	if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) {
		return Location{}, fmt.Errorf("%w: %s: position has a non-finite component", ErrInvalidEpoch, vec.Epoch)
	}

	latitude := degrees(math.Atan2(p.Z, math.Sqrt(p.X*p.X+p.Y*p.Y)))

	// Rotate the inertial angle back by Earth's rotation since UTC noon,
	// then apply the calibration offset. Epoch arithmetic is pure UTC.
	epoch := vec.EpochTime.UTC()
	hoursSinceNoon := float64(epoch.Hour()-12) + float64(epoch.Minute())/60
	longitude := degrees(math.Atan2(p.Y, p.X)) - hoursSinceNoon*earthRotationDegPerHour + longitudeCalibrationDeg

	// The correction moves the angle at most one revolution out of range,
	// so a single wrap suffices.
	if longitude > 180 {
		longitude -= 360
	} else if longitude < -180 {
		longitude += 360
	}

	altitude := math.Sqrt(p.X*p.X+p.Y*p.Y+p.Z*p.Z) - earthRadiusKm

	return Location{
		Latitude:  latitude,
		Longitude: longitude,
		Altitude:  Measurement{Value: altitude, Units: unitsKilometers},
		Place:     UnknownPlace,
	}, nil
}

// SnapshotAt composes the record nearest to an instant with its derived
// location and speed. Place resolution is left to the caller.
func (d *Dataset) SnapshotAt(instant time.Time) (NowState, error) {
	vec, offset, err := d.NearestTo(instant)
	if err != nil {
		return NowState{}, err
	}
	location, err := LocationOf(vec)
	if err != nil {
		return NowState{}, err
	}
	speed, err := Speed(vec)
	if err != nil {
		return NowState{}, err
	}
	return NowState{
		ClosestEpoch:   vec.Epoch,
		SecondsFromNow: offset,
		Location:       location,
		Speed:          speed,
	}, nil
}

// CurrentSnapshot is SnapshotAt evaluated at the current instant.
func (d *Dataset) CurrentSnapshot() (NowState, error) {
	return d.SnapshotAt(clock.Now())
}

func degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
