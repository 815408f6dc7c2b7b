package quote

import "time"

// Response represents the raw JSON response of the chart endpoint.
// Price arrays hold nulls for days without trading, hence the pointers.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart wraps the chart results and the optional API error.
type Chart struct {
	Result []Result  `json:"result"`
	Error  *APIError `json:"error"`
}

// APIError is the error object returned in place of results.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the series of one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta describes the quoted instrument.
type Meta struct {
	Currency     string `json:"currency"`
	Symbol       string `json:"symbol"`
	ExchangeName string `json:"exchangeName"`
	LongName     string `json:"longName"`
	Shortname    string `json:"shortName"`
}

// IndicatorsContainer holds the quote series.
type IndicatorsContainer struct {
	Quote []Series `json:"quote"`
}

// Series holds the daily closing prices.
type Series struct {
	Close []*float64 `json:"close"`
}

// Quote is the most recent closing price of a symbol.
type Quote struct {
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	Currency string    `json:"currency"`
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
}
