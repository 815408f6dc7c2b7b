package model

import "time"

// Portfolio represents one version of a named portfolio.
// Records sharing a Name form a lineage; every saved revision is a new record with its own ID.
type Portfolio struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	Assets    []Asset   `json:"assets"`
	CreatedAt time.Time `json:"createdAt"`
}

// CloneAssets returns a copy of the asset slice that shares no backing array with p.
func (p Portfolio) CloneAssets() []Asset {
	assets := make([]Asset, len(p.Assets))
	copy(assets, p.Assets)
	return assets
}

// PortfolioExport is the standalone document written on export. It carries no ID:
// an imported document always receives a fresh one.
type PortfolioExport struct {
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	Assets    []Asset   `json:"assets"`
	CreatedAt time.Time `json:"createdAt"`
}

// PortfolioListItem represents the latest version of a lineage in the overview list.
type PortfolioListItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Version        int       `json:"version"`
	AssetCount     int       `json:"assetCount"`
	TotalAmount    float64   `json:"totalAmount"`
	FormattedTotal string    `json:"formattedTotal"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PortfolioAllocation is the per-asset weight breakdown of a single portfolio version.
type PortfolioAllocation struct {
	PortfolioID string            `json:"portfolioId"`
	Name        string            `json:"name"`
	Version     int               `json:"version"`
	TotalAmount float64           `json:"totalAmount"`
	Assets      []AssetAllocation `json:"assets"`
}
