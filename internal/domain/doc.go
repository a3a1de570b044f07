// Package domain models photo-based location resolution and the
// conversational session seeded by it.
//
// # Resolution Tiers
//
// A location is resolved for a session exactly once, by the first tier that
// produces a usable place name:
//
//	EXIF_GEOCODE      embedded GPS tags → DMS normalization → reverse geocoding.
//	                  Cheapest and most trustworthy; always attempted first.
//	VISION_INFERENCE  the image is sent to a vision-capable model that replies
//	                  with a constrained JSON object {"location", "confidence"}.
//	                  Attempted only when the EXIF tier yields nothing usable.
//	MANUAL            free-text entry by the user, the last resort.
//
// Every tier failure is a degrade signal, never a crash: adapters catch their
// own transport and parse errors and the pipeline advances to the next tier.
//
// # DMS Coordinates
//
// EXIF stores GPS positions as degrees/minutes/seconds rationals plus a
// one-letter hemisphere reference:
//
//	decimal = degrees + minutes/60 + seconds/3600
//	sign flipped for S (latitude) and W (longitude) references.
//
// A rational with a zero denominator is malformed metadata. A missing
// hemisphere reference defaults to N/E so that partial tags still normalize
// (lenient policy; many phone cameras omit the ref fields).
//
// Internal arithmetic keeps full float64 precision; coordinates are formatted
// to 6 decimal places only at the display and geocoder boundaries
// (~11 cm, far below the city-level granularity needed here).
//
// # Locality Conventions
//
// Reverse geocoding targets OSM Nominatim address records. Localities are
// picked by a priority chain over the optional address fields:
//
//	locality: city → town → village → municipality → county
//	region:   state → province → county
//
// The service is Turkey-first: geocoding requests carry an "accept-language"
// tag (default "tr") and dialect samples map Turkish regions to short style
// reference texts.
//
// # Confidence
//
// EXIF-geocoded locations are HIGH confidence (hardware GPS fix), vision
// inferences carry the model-reported high/medium/low, and manual entries are
// UNKNOWN (never verified).
package domain
