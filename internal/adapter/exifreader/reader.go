// Package exifreader extracts embedded GPS tags from image byte streams
// using goexif. It implements domain.GeoTagReader.
package exifreader

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/couchcryptid/locale-scout/internal/domain"
)

// Reader reads EXIF GPS blocks from JPEG/TIFF images.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates an EXIF geo-tag reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadGeoTags returns the raw latitude and longitude DMS tags of an image.
//
// A readable image without a GPS block (PNGs, stripped JPEGs) yields
// domain.ErrNoGeoMetadata so the pipeline can degrade to vision inference.
// Only byte streams that do not sniff as an image at all are reported as
// domain.ErrUnreadableImage.
func (r *Reader) ReadGeoTags(image []byte) (domain.RawGeoTag, domain.RawGeoTag, error) {
	var zero domain.RawGeoTag

	if len(image) == 0 {
		return zero, zero, fmt.Errorf("empty byte stream: %w", domain.ErrUnreadableImage)
	}
	if !looksLikeImage(image) {
		return zero, zero, fmt.Errorf("content type %q: %w", http.DetectContentType(image), domain.ErrUnreadableImage)
	}

	x, err := exif.Decode(bytes.NewReader(image))
	if err != nil {
		// PNGs and EXIF-stripped JPEGs land here; the image itself is fine.
		r.logger.Debug("no exif block", "error", err)
		return zero, zero, domain.ErrNoGeoMetadata
	}

	lat, err := readAxis(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	if err != nil {
		return zero, zero, err
	}
	lon, err := readAxis(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	if err != nil {
		return zero, zero, err
	}
	return lat, lon, nil
}

// readAxis reads one GPS axis as a DMS triple plus hemisphere reference.
// A missing reference tag stays empty; the normalizer defaults it to N/E.
func readAxis(x *exif.Exif, value, ref exif.FieldName) (domain.RawGeoTag, error) {
	tag, err := x.Get(value)
	if err != nil {
		return domain.RawGeoTag{}, domain.ErrNoGeoMetadata
	}

	out := domain.RawGeoTag{
		Degrees: ratAt(tag, 0),
		Minutes: ratAt(tag, 1),
		Seconds: ratAt(tag, 2),
	}

	if refTag, err := x.Get(ref); err == nil {
		if s, err := refTag.StringVal(); err == nil {
			out.Ref = strings.ToUpper(strings.TrimSpace(s))
		}
	}
	return out, nil
}

// ratAt reads the i-th rational of a tag. Missing components are 0/1
// (lenient: some cameras write two-component DMS); a component that is not a
// rational becomes 0/0 so normalization reports malformed metadata.
func ratAt(tag *tiff.Tag, i int) domain.Rational {
	if i >= int(tag.Count) {
		return domain.Rational{Num: 0, Den: 1}
	}
	num, den, err := tag.Rat2(i)
	if err != nil {
		return domain.Rational{Num: 0, Den: 0}
	}
	return domain.Rational{Num: num, Den: den}
}

// looksLikeImage sniffs the stream's content type.
func looksLikeImage(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}
