package provider

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"nur/internal/core"
)

// NominatimName is the provider name of the OpenStreetMap geocoder.
const NominatimName = "nominatim"

// ErrPlaceNotFound is returned when geocoding yields no match.
var ErrPlaceNotFound = errors.New("place not found")

type Nominatim struct {
	client  *Client
	baseURL string
}

func NewNominatim(client *Client, baseURL string) *Nominatim {
	return &Nominatim{client: client, baseURL: baseURL}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search returns the best match for a free-form place query.
func (n *Nominatim) Search(ctx context.Context, query string) (*core.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrPlaceNotFound
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	rawURL := withQuery(joinURL(n.baseURL, "search"), q)

	var results []nominatimResult
	if err := n.client.Get(ctx, rawURL, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrPlaceNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, &FetchError{Provider: n.client.Name(), URL: rawURL, Kind: KindParse, Err: err}
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, &FetchError{Provider: n.client.Name(), URL: rawURL, Kind: KindParse, Err: err}
	}

	return &core.Place{Lat: lat, Lng: lng, DisplayName: results[0].DisplayName}, nil
}
