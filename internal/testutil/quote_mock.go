package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/quote"
)

// NewQuoteServer starts a chart endpoint that answers every symbol with resp.
// The server is closed when the test ends; its URL ends with a slash so it can be used as a base URL.
//
// Example usage:
//
//	srv := testutil.NewQuoteServer(t, testutil.CreateQuoteResponse("ACME", 101.5, 102.25))
//	client := quote.NewClient(srv.Client(), srv.URL+"/")
func NewQuoteServer(t *testing.T, resp quote.Response) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Trim(r.URL.Path, "/") == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

// CreateQuoteResponse creates a chart response with one day per close, ending yesterday.
// A nil close marks a day without trading.
func CreateQuoteResponse(symbol string, closes ...*float64) quote.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	timestamps := make([]int64, len(closes))
	for i := range closes {
		timestamps[i] = yesterday.AddDate(0, 0, -len(closes)+i+1).Unix()
	}

	return quote.Response{
		Chart: quote.Chart{
			Result: []quote.Result{
				{
					Meta: quote.Meta{
						Symbol:       symbol,
						Currency:     "USD",
						ExchangeName: "NMS",
						LongName:     "Test Holdings Inc.",
						Shortname:    symbol,
					},
					Timestamp: timestamps,
					Indicators: quote.IndicatorsContainer{
						Quote: []quote.Series{{Close: closes}},
					},
				},
			},
		},
	}
}

// CreateQuoteErrorResponse creates a chart response carrying an API error.
func CreateQuoteErrorResponse(description string) quote.Response {
	return quote.Response{
		Chart: quote.Chart{
			Result: []quote.Result{},
			Error:  &quote.APIError{Code: "Not Found", Description: description},
		},
	}
}
