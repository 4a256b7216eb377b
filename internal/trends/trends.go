// Package trends looks up keyword search volume and trend data from the
// external keyword API the dashboard's trend search uses.
package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrBadResponse is returned for non-200 statuses and unparseable bodies.
var ErrBadResponse = errors.New("trends: bad response from keyword API")

// Keyword is one result row from the keyword API.
type Keyword struct {
	Text             string  `json:"text"`
	Volume           int     `json:"volume"`
	Trend            float64 `json:"trend"`
	CompetitionIndex int     `json:"competition_index"`
	LowBid           float64 `json:"low_bid"`
	HighBid          float64 `json:"high_bid"`
}

// Client queries the keyword API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search fetches keyword data for a search term.
func (c *Client) Search(ctx context.Context, term string) ([]Keyword, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("trends: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("format", "json")
	q.Set("keyword", term)
	q.Set("lang", "en")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trends: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var keywords []Keyword
	if err := json.NewDecoder(resp.Body).Decode(&keywords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return keywords, nil
}
