// Package quote looks up the latest closing price of a stock symbol.
package quote

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

// DefaultBaseURL is the chart endpoint queried by NewClient.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// ErrNoPrice is returned when the response holds no usable closing price.
var ErrNoPrice = errors.New("no closing price returned")

// Client fetches daily price charts over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Latest returns the most recent non-null closing price of the last five trading days.
func (c *Client) Latest(ctx context.Context, symbol string) (Quote, error) {
	endpoint := c.baseURL + url.PathEscape(symbol) + "?interval=1d&range=5d"

	resp, err := c.query(ctx, endpoint)
	if err != nil {
		return Quote{}, err
	}
	if len(resp.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return ParseLatest(resp.Chart.Result[0])
}

// ParseLatest picks the last trading day that has a closing price.
func ParseLatest(result Result) (Quote, error) {
	if len(result.Indicators.Quote) == 0 {
		return Quote{}, ErrNoPrice
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return Quote{}, fmt.Errorf("mismatched data lengths")
	}

	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil {
			continue
		}
		name := result.Meta.LongName
		if name == "" {
			name = result.Meta.Shortname
		}
		return Quote{
			Symbol:   result.Meta.Symbol,
			Name:     name,
			Currency: result.Meta.Currency,
			Price:    *closes[i],
			Date:     time.Unix(result.Timestamp[i], 0).UTC(),
		}, nil
	}
	return Quote{}, ErrNoPrice
}

func (c *Client) query(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("failed to decode chart response (status %d): %w", resp.StatusCode, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("quote error: %s", response.Chart.Error.Description)
	}

	return response, nil
}
