// Package newsapi implements the headlines capability against the
// NewsAPI top-headlines endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://newsapi.org"

// Client calls the NewsAPI service.
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

type headlinesResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// TopHeadlines returns up to count strings shaped "Title from Source".
func (c *Client) TopHeadlines(ctx context.Context, count int) ([]string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"language": "en",
			"pageSize": strconv.Itoa(count),
			"apiKey":   c.apiKey,
		}).
		Get("/v2/top-headlines")
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("news status %d: %s", resp.StatusCode(), resp.String())
	}

	var data headlinesResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if data.Status != "ok" || len(data.Articles) == 0 {
		return nil, fmt.Errorf("no news available")
	}

	headlines := make([]string, 0, len(data.Articles))
	for _, a := range data.Articles {
		headlines = append(headlines, fmt.Sprintf("%s from %s", a.Title, a.Source.Name))
	}
	return headlines, nil
}
