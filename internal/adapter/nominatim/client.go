// Package nominatim wraps the OSM Nominatim reverse-geocoding API.
// It implements domain.ReverseGeocoder.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/observability"
)

// userAgent identifies the service per the Nominatim usage policy.
const userAgent = "locale-scout/1.0"

// Client implements domain.ReverseGeocoder using the Nominatim API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim reverse-geocoding client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode converts a coordinate pair to an address record in the
// requested language. Transport, status, and parse failures wrap
// domain.ErrGeocodeUnavailable; a coordinate the provider cannot geocode
// returns an empty Address without error.
func (c *Client) ReverseGeocode(ctx context.Context, coord domain.GeoCoordinate, lang string) (domain.Address, error) {
	params := url.Values{
		"format":          {"jsonv2"},
		"lat":             {fmt.Sprintf("%.6f", coord.Lat)},
		"lon":             {fmt.Sprintf("%.6f", coord.Lon)},
		"accept-language": {lang},
		// City/region granularity only; street detail is not needed.
		"zoom": {"10"},
	}
	fullURL := c.baseURL + "/reverse?" + params.Encode()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("create request: %w", domain.ErrGeocodeUnavailable)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Address{}, fmt.Errorf("reverse geocode request: %v: %w", err, domain.ErrGeocodeUnavailable)
	}
	defer resp.Body.Close()
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Address{}, fmt.Errorf("nominatim status %d: %s: %w", resp.StatusCode, body, domain.ErrGeocodeUnavailable)
	}

	var nomResp response
	if err := json.NewDecoder(resp.Body).Decode(&nomResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.Address{}, fmt.Errorf("decode response: %v: %w", err, domain.ErrGeocodeUnavailable)
	}

	// Nominatim reports "Unable to geocode" with HTTP 200.
	if nomResp.Error != "" {
		c.logger.Debug("nominatim could not geocode", "coord", coord.String(), "reason", nomResp.Error)
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.Address{}, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return domain.Address{
		City:         nomResp.Address.City,
		Town:         nomResp.Address.Town,
		Village:      nomResp.Address.Village,
		Municipality: nomResp.Address.Municipality,
		County:       nomResp.Address.County,
		State:        nomResp.Address.State,
		Province:     nomResp.Address.Province,
	}, nil
}

// Nominatim API response types.

type response struct {
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
	Error       string  `json:"error"`
}

type address struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	State        string `json:"state"`
	Province     string `json:"province"`
}
