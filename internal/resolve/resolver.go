// Package resolve implements the tiered location-resolution pipeline:
// EXIF geocoding first, vision inference second, manual entry last.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/observability"
)

// State is a stop of the resolution state machine, reported for observability.
type State string

const (
	StateUnresolved      State = "unresolved"
	StateEXIFAttempted   State = "exif_attempted"
	StateVisionAttempted State = "vision_attempted"
	StateManualPending   State = "manual_pending"
	StateResolved        State = "resolved"
)

// Result is the tagged outcome of an image resolution pass. When Resolved is
// false the session must fall through to manual entry; the pipeline never
// leaves a session without one of the three sources.
type Result struct {
	Location domain.ResolvedLocation
	Resolved bool
	State    State
}

// Pipeline orchestrates the fallback tiers. Each tier failure is a degrade
// signal advancing to the next tier; nothing here raises past its boundary.
type Pipeline struct {
	tags     domain.GeoTagReader
	geocoder domain.ReverseGeocoder
	vision   domain.VisionInferrer
	lang     string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline with the given tier collaborators. lang is the
// accept-language tag for reverse geocoding.
func New(tags domain.GeoTagReader, geocoder domain.ReverseGeocoder, vision domain.VisionInferrer, lang string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		tags:     tags,
		geocoder: geocoder,
		vision:   vision,
		lang:     lang,
		logger:   logger,
		metrics:  metrics,
	}
}

// ResolveImage walks the EXIF and vision tiers for an uploaded image.
// EXIF-derived geocoding is always attempted first (cheaper, no inference
// cost); vision inference runs only when the EXIF tier yields nothing usable.
// A Result with Resolved=false means both tiers degraded and the session is
// manual-pending.
func (p *Pipeline) ResolveImage(ctx context.Context, image []byte) Result {
	if loc, ok := p.exifTier(ctx, image); ok {
		p.metrics.ResolveAttempts.WithLabelValues("exif", "resolved").Inc()
		return Result{Location: loc, Resolved: true, State: StateResolved}
	}
	p.metrics.ResolveAttempts.WithLabelValues("exif", "degraded").Inc()

	if loc, ok := p.visionTier(ctx, image); ok {
		p.metrics.ResolveAttempts.WithLabelValues("vision", "resolved").Inc()
		return Result{Location: loc, Resolved: true, State: StateResolved}
	}
	p.metrics.ResolveAttempts.WithLabelValues("vision", "degraded").Inc()

	return Result{State: StateManualPending}
}

// ResolveManual accepts a free-text location entry, the final tier. Manual
// entries always carry UNKNOWN confidence. An empty entry is the only way the
// whole chain terminally fails.
func (p *Pipeline) ResolveManual(text string) (domain.ResolvedLocation, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return domain.ResolvedLocation{}, domain.ErrNoLocationResolved
	}
	p.metrics.ResolveAttempts.WithLabelValues("manual", "resolved").Inc()
	return domain.ResolvedLocation{
		DisplayName: name,
		Source:      domain.SourceManual,
		Confidence:  domain.ConfidenceUnknown,
	}, nil
}

// exifTier extracts embedded GPS tags, normalizes them, and reverse geocodes
// the coordinate. The reverse geocoder is never called when metadata is
// absent or does not normalize. A geocode without a locality is a degrade,
// not an acceptable answer.
func (p *Pipeline) exifTier(ctx context.Context, image []byte) (domain.ResolvedLocation, bool) {
	lat, lon, err := p.tags.ReadGeoTags(image)
	if err != nil {
		p.logger.Info("exif tier degraded", "stage", "extract", "error", err)
		return domain.ResolvedLocation{}, false
	}

	coord, err := domain.NormalizeDMS(lat, lon)
	if err != nil {
		p.logger.Warn("exif tier degraded", "stage", "normalize", "error", err)
		return domain.ResolvedLocation{}, false
	}

	addr, err := p.geocoder.ReverseGeocode(ctx, coord, p.lang)
	if err != nil {
		p.logger.Warn("exif tier degraded", "stage", "geocode", "coord", coord.String(), "error", err)
		return domain.ResolvedLocation{}, false
	}
	if addr.Locality() == "" {
		p.logger.Info("exif tier degraded", "stage", "geocode", "coord", coord.String(), "reason", "no locality")
		return domain.ResolvedLocation{}, false
	}

	p.logger.Info("location resolved", "tier", "exif", "location", addr.DisplayName())
	return domain.ResolvedLocation{
		DisplayName: addr.DisplayName(),
		Source:      domain.SourceEXIFGeocode,
		Confidence:  domain.ConfidenceHigh,
	}, true
}

// visionTier asks the vision model for a location guess.
func (p *Pipeline) visionTier(ctx context.Context, image []byte) (domain.ResolvedLocation, bool) {
	guess, err := p.vision.InferLocation(ctx, image)
	if err != nil {
		p.logger.Warn("vision tier degraded", "error", err)
		return domain.ResolvedLocation{}, false
	}

	p.logger.Info("location resolved", "tier", "vision", "location", guess.Location, "confidence", guess.Confidence)
	return domain.ResolvedLocation{
		DisplayName: guess.Location,
		Source:      domain.SourceVisionInference,
		Confidence:  guess.Confidence,
	}, true
}
