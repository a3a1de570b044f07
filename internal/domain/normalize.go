package domain

import "fmt"

// NormalizeDMS converts a pair of raw EXIF geo tags into a signed decimal
// coordinate. The hemisphere reference flips the sign for S latitudes and
// W longitudes; a missing reference defaults to N/E.
func NormalizeDMS(lat, lon RawGeoTag) (GeoCoordinate, error) {
	latDec, err := normalizeAxis(lat, "S", 90)
	if err != nil {
		return GeoCoordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lonDec, err := normalizeAxis(lon, "W", 180)
	if err != nil {
		return GeoCoordinate{}, fmt.Errorf("longitude: %w", err)
	}
	return GeoCoordinate{Lat: latDec, Lon: lonDec}, nil
}

// normalizeAxis computes degrees + minutes/60 + seconds/3600 at full float64
// precision, then applies the hemisphere sign and the range invariant.
func normalizeAxis(tag RawGeoTag, negativeRef string, limit float64) (float64, error) {
	deg, err := tag.Degrees.Value()
	if err != nil {
		return 0, fmt.Errorf("degrees: %w", err)
	}
	min, err := tag.Minutes.Value()
	if err != nil {
		return 0, fmt.Errorf("minutes: %w", err)
	}
	sec, err := tag.Seconds.Value()
	if err != nil {
		return 0, fmt.Errorf("seconds: %w", err)
	}

	dec := deg + min/60 + sec/3600
	if tag.Ref == negativeRef {
		dec = -dec
	}

	if dec < -limit || dec > limit {
		return 0, fmt.Errorf("%.6f out of range [-%g, %g]: %w", dec, limit, limit, ErrMalformedMetadata)
	}
	return dec, nil
}
