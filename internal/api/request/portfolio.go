package request

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	Name string `json:"name"`
}

// AddAssetRequest represents the request body for appending an asset to a portfolio.
// Numeric fields are pointers so that a missing value can be told apart from zero.
type AddAssetRequest struct {
	AssetType     string   `json:"assetType"`
	AssetName     string   `json:"assetName"`
	WinRate       *float64 `json:"winRate"`
	Amount        *float64 `json:"amount,omitempty"`
	StockQuantity *float64 `json:"stockQuantity,omitempty"`
	StockPrice    *float64 `json:"stockPrice,omitempty"`
}

// SaveVersionRequest carries the caller's pending-changes flag.
// A nil HasChanges is treated as true.
type SaveVersionRequest struct {
	HasChanges *bool `json:"hasChanges,omitempty"`
}

// PendingChanges reports whether the caller has unsaved asset changes.
func (r SaveVersionRequest) PendingChanges() bool {
	return r.HasChanges == nil || *r.HasChanges
}
