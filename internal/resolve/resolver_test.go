package resolve_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/observability"
	"github.com/couchcryptid/locale-scout/internal/resolve"
)

// --- mocks ---

type mockTagReader struct {
	lat, lon domain.RawGeoTag
	err      error
	calls    int
}

func (m *mockTagReader) ReadGeoTags([]byte) (domain.RawGeoTag, domain.RawGeoTag, error) {
	m.calls++
	return m.lat, m.lon, m.err
}

type mockGeocoder struct {
	addr  domain.Address
	err   error
	calls int
	coord domain.GeoCoordinate
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, coord domain.GeoCoordinate, _ string) (domain.Address, error) {
	m.calls++
	m.coord = coord
	return m.addr, m.err
}

type mockVision struct {
	guess domain.VisionGuess
	err   error
	calls int
}

func (m *mockVision) InferLocation(context.Context, []byte) (domain.VisionGuess, error) {
	m.calls++
	return m.guess, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(tags *mockTagReader, geo *mockGeocoder, vis *mockVision) *resolve.Pipeline {
	return resolve.New(tags, geo, vis, "tr", discardLogger(), observability.NewMetricsForTesting())
}

func istanbulTags() (domain.RawGeoTag, domain.RawGeoTag) {
	// 41.0082 N, 28.9784 E
	lat := domain.RawGeoTag{
		Degrees: domain.Rational{Num: 41, Den: 1},
		Minutes: domain.Rational{Num: 0, Den: 1},
		Seconds: domain.Rational{Num: 2952, Den: 100},
		Ref:     "N",
	}
	lon := domain.RawGeoTag{
		Degrees: domain.Rational{Num: 28, Den: 1},
		Minutes: domain.Rational{Num: 58, Den: 1},
		Seconds: domain.Rational{Num: 4224, Den: 100},
		Ref:     "E",
	}
	return lat, lon
}

// --- tests ---

func TestResolveImage_EXIFTier(t *testing.T) {
	lat, lon := istanbulTags()
	tags := &mockTagReader{lat: lat, lon: lon}
	geo := &mockGeocoder{addr: domain.Address{City: "Istanbul", State: "Marmara"}}
	vis := &mockVision{}

	result := newPipeline(tags, geo, vis).ResolveImage(context.Background(), []byte("img"))

	require.True(t, result.Resolved)
	assert.Equal(t, resolve.StateResolved, result.State)

	want := domain.ResolvedLocation{
		DisplayName: "Istanbul, Marmara",
		Source:      domain.SourceEXIFGeocode,
		Confidence:  domain.ConfidenceHigh,
	}
	if diff := cmp.Diff(want, result.Location); diff != "" {
		t.Errorf("resolved location mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 41.0082, geo.coord.Lat, 1e-4)
	assert.InDelta(t, 28.9784, geo.coord.Lon, 1e-4)
	assert.Equal(t, 0, vis.calls, "vision must not run when EXIF resolves")
}

func TestResolveImage_MetadataAbsent_SkipsGeocoderAttemptsVision(t *testing.T) {
	tags := &mockTagReader{err: domain.ErrNoGeoMetadata}
	geo := &mockGeocoder{}
	vis := &mockVision{guess: domain.VisionGuess{Location: "Safranbolu", Confidence: domain.ConfidenceMedium}}

	result := newPipeline(tags, geo, vis).ResolveImage(context.Background(), []byte("img"))

	require.True(t, result.Resolved)
	assert.Equal(t, 0, geo.calls, "geocoder must never run without metadata")
	assert.Equal(t, 1, vis.calls)
	assert.Equal(t, "Safranbolu", result.Location.DisplayName)
	assert.Equal(t, domain.SourceVisionInference, result.Location.Source)
	assert.Equal(t, domain.ConfidenceMedium, result.Location.Confidence)
}

func TestResolveImage_UnreadableImage_AttemptsVision(t *testing.T) {
	tags := &mockTagReader{err: domain.ErrUnreadableImage}
	geo := &mockGeocoder{}
	vis := &mockVision{guess: domain.VisionGuess{Location: "Mardin", Confidence: domain.ConfidenceHigh}}

	result := newPipeline(tags, geo, vis).ResolveImage(context.Background(), []byte("junk"))

	require.True(t, result.Resolved)
	assert.Equal(t, 0, geo.calls)
	assert.Equal(t, domain.SourceVisionInference, result.Location.Source)
}

func TestResolveImage_MalformedMetadata_AttemptsVision(t *testing.T) {
	lat, lon := istanbulTags()
	lat.Minutes = domain.Rational{Num: 30, Den: 0} // zero denominator
	tags := &mockTagReader{lat: lat, lon: lon}
	geo := &mockGeocoder{}
	vis := &mockVision{guess: domain.VisionGuess{Location: "Bursa", Confidence: domain.ConfidenceLow}}

	result := newPipeline(tags, geo, vis).ResolveImage(context.Background(), []byte("img"))

	require.True(t, result.Resolved)
	assert.Equal(t, 0, geo.calls, "malformed DMS must not reach the geocoder")
	assert.Equal(t, 1, vis.calls)
}

func TestResolveImage_EmptyGeocode_TreatedAsDegrade(t *testing.T) {
	lat, lon := istanbulTags()
	tags := &mockTagReader{lat: lat, lon: lon}
	geo := &mockGeocoder{addr: domain.Address{}} // city=town=village=county all absent
	vis := &mockVision{guess: domain.VisionGuess{Location: "İzmir", Confidence: domain.ConfidenceMedium}}

	result := newPipeline(tags, geo, vis).ResolveImage(context.Background(), []byte("img"))

	require.True(t, result.Resolved)
	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, 1, vis.calls, "empty geocode degrades to vision")
	assert.Equal(t, domain.SourceVisionInference, result.Location.Source)
}

func TestResolveImage_GeocodeUnavailable_TreatedAsDegrade(t *testing.T) {
	lat, lon := istanbulTags()
	tags := &mockTagReader{lat: lat, lon: lon}
	geo := &mockGeocoder{err: domain.ErrGeocodeUnavailable}
	vis := &mockVision{guess: domain.VisionGuess{Location: "Antalya", Confidence: domain.ConfidenceHigh}}

	result := newPipeline(tags, geo, vis).ResolveImage(context.Background(), []byte("img"))

	require.True(t, result.Resolved)
	assert.Equal(t, domain.SourceVisionInference, result.Location.Source)
}

func TestResolveImage_BothTiersFail_ManualPending(t *testing.T) {
	tags := &mockTagReader{err: domain.ErrNoGeoMetadata}
	geo := &mockGeocoder{}
	vis := &mockVision{err: domain.ErrInferenceUnavailable}

	result := newPipeline(tags, geo, vis).ResolveImage(context.Background(), []byte("img"))

	assert.False(t, result.Resolved)
	assert.Equal(t, resolve.StateManualPending, result.State)
}

func TestResolveManual(t *testing.T) {
	p := newPipeline(&mockTagReader{}, &mockGeocoder{}, &mockVision{})

	loc, err := p.ResolveManual("  Mardin  ")
	require.NoError(t, err)

	want := domain.ResolvedLocation{
		DisplayName: "Mardin",
		Source:      domain.SourceManual,
		Confidence:  domain.ConfidenceUnknown,
	}
	if diff := cmp.Diff(want, loc); diff != "" {
		t.Errorf("manual location mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveManual_EmptyEntry(t *testing.T) {
	p := newPipeline(&mockTagReader{}, &mockGeocoder{}, &mockVision{})

	_, err := p.ResolveManual("   ")
	assert.ErrorIs(t, err, domain.ErrNoLocationResolved)
}
