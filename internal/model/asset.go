package model

// AssetType classifies a holding.
type AssetType string

const (
	AssetTypeStock AssetType = "stock"
	AssetTypeOther AssetType = "other"
)

// ValidAssetTypes contains the allowed asset type values.
var ValidAssetTypes = map[AssetType]bool{
	AssetTypeStock: true, AssetTypeOther: true,
}

// Asset represents one holding inside a portfolio version.
// For stock assets Amount is derived from StockQuantity * StockPrice when the asset is created;
// StockQuantity and StockPrice are nil for every other asset type.
type Asset struct {
	ID            string    `json:"id"`
	AssetType     AssetType `json:"assetType"`
	AssetName     string    `json:"assetName"`
	WinRate       float64   `json:"winRate"`
	Amount        float64   `json:"amount"`
	StockQuantity *float64  `json:"stockQuantity,omitempty"`
	StockPrice    *float64  `json:"stockPrice,omitempty"`
}

// IsStock reports whether the asset is a stock holding.
func (a Asset) IsStock() bool {
	return a.AssetType == AssetTypeStock
}

// AssetAllocation describes the share of a single asset in its portfolio total.
type AssetAllocation struct {
	AssetID     string  `json:"assetId"`
	AssetName   string  `json:"assetName"`
	Amount      float64 `json:"amount"`
	Weight      float64 `json:"weight"`      // amount / portfolio total
	EqualWeight float64 `json:"equalWeight"` // fixed-balance weight
}
