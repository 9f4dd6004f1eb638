// Package openweather implements the weather capability against the
// OpenWeatherMap current-weather API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Client calls the OpenWeatherMap API.
type Client struct {
	client *resty.Client
	apiKey string
}

// New creates a Client. baseURL overrides the production endpoint for
// tests; pass "" for the default.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &Client{client: c, apiKey: apiKey}
}

type weatherResponse struct {
	Cod     json.Number `json:"cod"`
	Message string      `json:"message"`
	Name    string      `json:"name"`
	Main    struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current returns a user-facing description of current conditions.
func (c *Client) Current(ctx context.Context, city string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": c.apiKey,
			"units": "metric",
		}).
		Get("/data/2.5/weather")
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}

	var data weatherResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}
	// The API reports errors in-body with a non-200 "cod".
	if data.Cod.String() != "200" {
		msg := data.Message
		if msg == "" {
			msg = "City not found"
		}
		return "", fmt.Errorf("weather error: %s (cod: %s)", msg, data.Cod.String())
	}

	desc := ""
	if len(data.Weather) > 0 {
		desc = data.Weather[0].Description
	}
	return fmt.Sprintf("Weather in %s: %.1f°C, %s.", data.Name, data.Main.Temp, desc), nil
}
