package domain

import "context"

// GeoTagReader extracts embedded GPS tags from an image byte stream.
//
// Returns ErrNoGeoMetadata when the image is readable but carries no GPS
// block, and ErrUnreadableImage when the bytes are not a recognizable image.
type GeoTagReader interface {
	ReadGeoTags(image []byte) (lat, lon RawGeoTag, err error)
}

// ReverseGeocoder maps a coordinate pair to an address record.
// lang is an accept-language tag such as "tr".
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, coord GeoCoordinate, lang string) (Address, error)
}

// VisionInferrer guesses a location from image content alone.
// Any backend or schema failure is reported as ErrInferenceUnavailable.
type VisionInferrer interface {
	InferLocation(ctx context.Context, image []byte) (VisionGuess, error)
}

// Completer generates text from an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
