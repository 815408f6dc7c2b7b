package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolios handles GET requests for the latest version of every portfolio.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of PortfolioListItem, newest first
// Error: 500 Internal Server Error if the collection cannot be read
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.ListLatest(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// PortfolioVersions handles GET requests for all versions of a named portfolio.
//
// Endpoint: GET /api/portfolio/versions?name={name}
// Response: 200 OK with array of Portfolio ordered by version
// Error: 400 Bad Request if name is missing
func (h *PortfolioHandler) PortfolioVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.portfolioService.ListVersions(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios)
		return
	}

	response.RespondJSON(w, http.StatusOK, versions)
}

// GetPortfolio handles GET requests for a single portfolio record.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with Portfolio
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio handles POST requests to start a new portfolio version.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (name)
// Response: 201 Created with Portfolio
// Error: 400 Bad Request if the body is invalid or the name is empty
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreatePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// AppendAsset handles POST requests to add an asset to a portfolio.
//
// Endpoint: POST /api/portfolio/{uuid}/asset
// Request Body: AddAssetRequest
// Response: 201 Created with the updated Portfolio
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the portfolio does not exist
// Error: 409 Conflict if a newer version of the portfolio exists
func (h *PortfolioHandler) AppendAsset(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.AddAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.AppendAsset(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAppendAsset)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// SaveNewVersion handles POST requests to snapshot a portfolio as its next version.
// The body is optional; without it the caller is assumed to have pending changes.
//
// Endpoint: POST /api/portfolio/{uuid}/version
// Request Body: SaveVersionRequest (hasChanges, optional)
// Response: 201 Created with the new Portfolio
// Error: 404 Not Found if the portfolio does not exist
// Error: 409 Conflict if there are no pending changes or a newer version exists
func (h *PortfolioHandler) SaveNewVersion(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.SaveVersionRequest](r)
	if err != nil && !errors.Is(err, errEmptyBody) {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.SaveNewVersion(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveVersion)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// ImportPortfolio handles POST requests carrying an exported portfolio document.
//
// Endpoint: POST /api/portfolio/import
// Request Body: portfolio document (name, version, assets)
// Response: 201 Created with the imported Portfolio
// Error: 400 Bad Request if the document does not have the portfolio shape
func (h *PortfolioHandler) ImportPortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.ImportPortfolio(r.Context(), data)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportPortfolio)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// ExportPortfolio handles GET requests to download a portfolio document.
//
// Endpoint: GET /api/portfolio/{uuid}/export
// Response: 200 OK with the document as attachment {name}_v{version}.json
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) ExportPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	file, err := h.portfolioService.ExportPortfolio(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToExportPortfolio)
		return
	}

	response.RespondAttachment(w, file.Filename, file.Data)
}

// Allocation handles GET requests for the weight breakdown of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/allocation
// Response: 200 OK with PortfolioAllocation
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	allocation, err := h.portfolioService.GetAllocation(r.Context(), portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetAllocation)
		return
	}

	response.RespondJSON(w, http.StatusOK, allocation)
}
