package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Fallback strings shown when the geocoding provider can't help. Geocoding
// is advisory only; nothing downstream depends on a real address.
const (
	UnknownLocation         = "Unknown location"
	LocationDetectionFailed = "Location detection failed"
)

const mapboxPlacesURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Geocoder resolves coordinates to human-readable place names via Mapbox
type Geocoder struct {
	Token  string
	Client *http.Client

	baseURL string
}

// NewGeocoder returns a geocoder with a sane request timeout
func NewGeocoder(token string) *Geocoder {
	return &Geocoder{
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: mapboxPlacesURL,
	}
}

type mapboxResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
	} `json:"features"`
}

// Reverse converts a coordinate pair into a place name. Any failure returns
// UnknownLocation; callers never see an error.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) string {
	reqURL := fmt.Sprintf("%s/%v,%v.json?access_token=%s", g.baseURL, lon, lat, url.QueryEscape(g.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		zap.S().Errorw("failed to build geocoding request", "error", err)
		return UnknownLocation
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		zap.S().Errorw("geocoding failed", "error", err)
		return UnknownLocation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.S().Errorw("geocoding provider returned non-200", "status", resp.StatusCode)
		return UnknownLocation
	}

	var body mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		zap.S().Errorw("failed to decode geocoding response", "error", err)
		return UnknownLocation
	}
	if len(body.Features) == 0 {
		return UnknownLocation
	}
	return body.Features[0].PlaceName
}
