// internal/geocode/geocode.go
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/OCAP2/csvmap/internal/config"
)

var (
	// ErrDisabled is returned when the geocoder is switched off.
	ErrDisabled = errors.New("geocoder disabled")
	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("empty geocoder query")
)

// Result is one Nominatim search hit. Coordinates stay strings as
// Nominatim sends them.
type Result struct {
	PlaceID     int64    `json:"place_id"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	BoundingBox []string `json:"boundingbox"`
	Class       string   `json:"class,omitempty"`
	Type        string   `json:"type,omitempty"`
	Importance  float64  `json:"importance,omitempty"`
}

// Client queries a Nominatim compatible search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	limit      int
	enabled    bool
	httpClient *http.Client
}

// New creates a new geocoder client.
func New(cfg config.GeocoderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		userAgent:  cfg.UserAgent,
		limit:      cfg.Limit,
		enabled:    cfg.Enabled && cfg.URL != "",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether Search may be called.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Search looks up q and returns at most the configured number of hits.
func (c *Client) Search(ctx context.Context, q string) ([]Result, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	if c.limit > 0 {
		params.Set("limit", strconv.Itoa(c.limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if results == nil {
		results = []Result{}
	}
	if c.limit > 0 && len(results) > c.limit {
		results = results[:c.limit]
	}
	return results, nil
}
