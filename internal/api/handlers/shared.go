package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/validation"
)

// maxBodyBytes limits request bodies, including imported documents.
const maxBodyBytes = 1 << 20

// errEmptyBody is returned by parseJSON when the request has no body.
var errEmptyBody = errors.New("request body is empty")

// parseJSON decodes the request body into a value of type T.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil || r.Body == http.NoBody {
		return req, errEmptyBody
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errEmptyBody
		}
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	return req, nil
}

// respondServiceError maps a service error to its HTTP status.
// failure is the generic message used for unexpected errors.
func respondServiceError(w http.ResponseWriter, err error, failure error) {
	var valErr *validation.Error
	switch {
	case errors.As(err, &valErr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", valErr.Fields)
	case errors.Is(err, apperrors.ErrInvalidFormat):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidFormat.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPortfolioVersionFrozen):
		response.RespondError(w, http.StatusConflict, apperrors.ErrPortfolioVersionFrozen.Error(), err.Error())
	case errors.Is(err, apperrors.ErrNoPendingChanges):
		response.RespondError(w, http.StatusConflict, apperrors.ErrNoPendingChanges.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, failure.Error(), err.Error())
	}
}
