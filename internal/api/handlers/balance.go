package handlers

import (
	"net/http"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/balance"
)

// BalanceHandler serves the weighting helpers.
type BalanceHandler struct{}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler() *BalanceHandler {
	return &BalanceHandler{}
}

// FixedBalanceResponse holds the equal weights.
type FixedBalanceResponse struct {
	Weights []float64 `json:"weights"`
}

// FixedBalance handles POST requests that turn a list of weights into equal weights.
//
// Endpoint: POST /api/balance/fixed
// Request Body: FixedBalanceRequest (weights)
// Response: 200 OK with FixedBalanceResponse
// Error: 400 Bad Request if the body is invalid
func (h *BalanceHandler) FixedBalance(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.FixedBalanceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, FixedBalanceResponse{
		Weights: balance.FixedBalance(req.Weights),
	})
}
