package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the resolution flow. Adapters wrap these with context;
// the pipeline branches on them with errors.Is.
var (
	// ErrMalformedMetadata indicates an unparsable DMS rational (zero
	// denominator or out-of-range result).
	ErrMalformedMetadata = errors.New("malformed geo metadata")

	// ErrUnreadableImage indicates a byte stream that is not a recognizable
	// image at all. Distinct from an image that simply carries no geo tags.
	ErrUnreadableImage = errors.New("unreadable image")

	// ErrNoGeoMetadata indicates a readable image without embedded GPS tags.
	// This is an expected outcome, not a failure; the pipeline degrades to
	// vision inference.
	ErrNoGeoMetadata = errors.New("no geo metadata present")

	// ErrGeocodeUnavailable indicates a transport or parse failure from the
	// reverse geocoder. Degrades, never propagates to the user.
	ErrGeocodeUnavailable = errors.New("reverse geocoder unavailable")

	// ErrInferenceUnavailable indicates a vision/text backend failure or a
	// reply that does not conform to the required schema. All parse failure
	// modes map here uniformly.
	ErrInferenceUnavailable = errors.New("inference unavailable")

	// ErrNoLocationResolved is the terminal failure after the EXIF, vision,
	// and manual tiers are all exhausted or declined.
	ErrNoLocationResolved = errors.New("no location resolved")

	// ErrSessionLocked indicates an attempt to re-resolve a session whose
	// location is already locked in.
	ErrSessionLocked = errors.New("session location already locked")
)

// Rational is an EXIF rational value (numerator/denominator).
type Rational struct {
	Num int64
	Den int64
}

// Value returns the rational as a float64, or ErrMalformedMetadata when the
// denominator is zero.
func (r Rational) Value() (float64, error) {
	if r.Den == 0 {
		return 0, fmt.Errorf("%d/0: %w", r.Num, ErrMalformedMetadata)
	}
	return float64(r.Num) / float64(r.Den), nil
}

// RawGeoTag is one axis of an embedded GPS position as read from EXIF:
// a DMS triple plus a hemisphere reference ("N", "S", "E" or "W").
// An empty Ref is treated as N/E by the normalizer.
type RawGeoTag struct {
	Degrees Rational
	Minutes Rational
	Seconds Rational
	Ref     string
}

// GeoCoordinate is a signed decimal WGS-84 coordinate pair.
type GeoCoordinate struct {
	Lat float64
	Lon float64
}

// String formats the pair to 6 decimal places, the precision used for
// display and geocoder requests.
func (c GeoCoordinate) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
}

// Source identifies which resolution tier produced a location.
type Source string

const (
	SourceEXIFGeocode     Source = "exif_geocode"
	SourceVisionInference Source = "vision_inference"
	SourceManual          Source = "manual"
)

// Confidence is the trust level attached to a resolved location.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// ParseConfidence maps a model-reported confidence string to a Confidence.
// Anything outside the high/medium/low enum is rejected.
func ParseConfidence(s string) (Confidence, bool) {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s), true
	}
	return "", false
}

// ResolvedLocation is the single place name locked into a session.
// Created exactly once per session by the resolution pipeline and immutable
// afterward.
type ResolvedLocation struct {
	DisplayName string     `json:"display_name"`
	Source      Source     `json:"source"`
	Confidence  Confidence `json:"confidence"`
}

// VisionGuess is the parsed reply of the vision location inferrer.
type VisionGuess struct {
	Location   string
	Confidence Confidence
}

// Address is a reverse-geocoding result. All fields are optional; empty
// strings mean the provider did not report that component. Callers branch on
// emptiness of the derived Locality/Region, never on "Unknown" sentinels.
type Address struct {
	City         string
	Town         string
	Village      string
	Municipality string
	County       string
	State        string
	Province     string
}

// Locality picks the most specific populated-place name available.
func (a Address) Locality() string {
	for _, s := range []string{a.City, a.Town, a.Village, a.Municipality, a.County} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Region picks the broadest administrative area available.
func (a Address) Region() string {
	for _, s := range []string{a.State, a.Province, a.County} {
		if s != "" {
			return s
		}
	}
	return ""
}

// DisplayName renders the address as "Locality, Region" for session lock-in.
// A missing region collapses to the bare locality; an entirely empty address
// renders as "Unknown" (display only — control flow checks Locality()).
func (a Address) DisplayName() string {
	loc := a.Locality()
	region := a.Region()
	switch {
	case loc == "" && region == "":
		return "Unknown"
	case loc == "":
		return region
	case region == "" || region == loc:
		return loc
	}
	return loc + ", " + region
}
