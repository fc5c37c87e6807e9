// Package domain models the ISS trajectory dataset and the lookups and
// derivations the API serves from it.
//
// # Data Source
//
// The upstream document is NASA's public Orbit Ephemeris Message (OEM)
// feed for the International Space Station, available at
// https://nasa-public-data.s3.amazonaws.com/iss-coords/current/ISS_OEM/ISS.OEM_J2K_EPH.xml.
// The feed is a CCSDS OEM document in XML form: a header block, a single
// segment with a metadata block and free-form comment lines, and a list
// of state vectors sampled roughly every four minutes over a fifteen-day
// window. Each state vector carries an epoch, a position in kilometers,
// and a velocity in kilometers per second, expressed in the J2000
// inertial frame.
//
// # Epoch Format
//
//	YYYY-DDDThh:mm:ss[.fff]Z  →  e.g. "2024-045T12:00:00.000Z"
//	DDD is the one-based day of year. Always UTC.
//	The feed emits millisecond fractions; queries may omit them.
//
// The raw epoch string is the record key: lookups compare strings, not
// parsed times. Parsed times are kept alongside for nearest-record
// queries.
//
// # Derived Quantities
//
// Speed:
//
//	Euclidean norm of the velocity components, in km/s.
//
// Geographic position (spherical-Earth model):
//
//	latitude  = atan2(z, sqrt(x²+y²)) in degrees
//	longitude = atan2(y, x) in degrees, minus Earth rotation since
//	            UTC noon at 15°/hour, plus a fixed calibration offset,
//	            wrapped into [-180, 180]
//	altitude  = sqrt(x²+y²+z²) minus the mean Earth radius (6371 km)
//
// The calibration offset and radius are project constants carried over
// from the tracker's observed alignment against ground track data; see
// kinematics.go. Positions over open ocean reverse-geocode to nothing,
// so locations carry the [UnknownPlace] sentinel until a geocoder
// resolves a name.
package domain
