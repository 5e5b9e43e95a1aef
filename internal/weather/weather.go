package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrLocationNotFound = errors.New("location not found")

// Client wraps the OpenWeather geocoding and one-call APIs. Responses from
// the forecast API are proxied through unmodified apart from an added "city"
// field; nothing is cached.
type Client struct {
	httpClient *http.Client
	apiKey     string
	geoURL     string
	oneCallURL string
}

func New(apiKey, geoURL, oneCallURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		geoURL:     geoURL,
		oneCallURL: oneCallURL,
	}
}

// GeocodeZip resolves a zipcode to coordinates and a "City, CC" label.
func (c *Client) GeocodeZip(ctx context.Context, zipcode string) (lat, lon float64, city string, err error) {
	const op = "weather.GeocodeZip"

	reqURL := fmt.Sprintf("%s/zip?zip=%s&appid=%s", c.geoURL, url.QueryEscape(zipcode), c.apiKey)

	var result struct {
		Cod     json.Number `json:"cod"`
		Lat     float64     `json:"lat"`
		Lon     float64     `json:"lon"`
		Name    string      `json:"name"`
		Country string      `json:"country"`
	}

	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return 0, 0, "", fmt.Errorf("%s: %w", op, err)
	}

	if result.Cod.String() == "404" || result.Name == "" {
		return 0, 0, "", ErrLocationNotFound
	}

	return result.Lat, result.Lon, result.Name + ", " + result.Country, nil
}

// ReverseGeocode resolves coordinates to a "City, CC" label.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon string) (string, error) {
	const op = "weather.ReverseGeocode"

	reqURL := fmt.Sprintf("%s/reverse?lat=%s&lon=%s&limit=1&appid=%s",
		c.geoURL, url.QueryEscape(lat), url.QueryEscape(lon), c.apiKey)

	var result []struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	}

	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(result) < 1 {
		return "", ErrLocationNotFound
	}

	return result[0].Name + ", " + result[0].Country, nil
}

// Forecast returns the one-call payload (imperial units, minutely and alerts
// excluded) with the resolved city injected.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, city string) (map[string]any, error) {
	const op = "weather.Forecast"

	reqURL := fmt.Sprintf("%s?exclude=minutely,alerts&units=imperial&lat=%f&lon=%f&appid=%s",
		c.oneCallURL, lat, lon, c.apiKey)

	result := map[string]any{}

	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result["city"] = city

	return result, nil
}

// ForecastAt is Forecast for coordinates that arrive as path strings.
func (c *Client) ForecastAt(ctx context.Context, lat, lon string, city string) (map[string]any, error) {
	const op = "weather.ForecastAt"

	reqURL := fmt.Sprintf("%s?exclude=minutely,alerts&units=imperial&lat=%s&lon=%s&appid=%s",
		c.oneCallURL, url.QueryEscape(lat), url.QueryEscape(lon), c.apiKey)

	result := map[string]any{}

	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result["city"] = city

	return result, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}
