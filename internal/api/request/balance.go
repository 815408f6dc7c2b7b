package request

// FixedBalanceRequest represents the request body for equal-weight balancing.
type FixedBalanceRequest struct {
	Weights []float64 `json:"weights"`
}
