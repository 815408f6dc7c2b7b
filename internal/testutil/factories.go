package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/storage"
)

// PortfolioBuilder provides a fluent interface for creating test portfolio records.
// Build writes the record straight into the collection, bypassing service rules,
// which makes it possible to set up arbitrary lineages.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, store)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Retirement").
//	    WithVersion(2).
//	    WithAssets(testutil.NewStockAsset("ACME", 100, 3).Build()).
//	    Build(t, store)
type PortfolioBuilder struct {
	ID        string
	Name      string
	Version   int
	Assets    []model.Asset
	CreatedAt time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:        MakeID(),
		Name:      MakePortfolioName("Test Portfolio"),
		Version:   1,
		Assets:    []model.Asset{},
		CreatedAt: BaseTime,
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithVersion sets a custom version.
func (b *PortfolioBuilder) WithVersion(version int) *PortfolioBuilder {
	b.Version = version
	return b
}

// WithAssets replaces the asset list.
func (b *PortfolioBuilder) WithAssets(assets ...model.Asset) *PortfolioBuilder {
	b.Assets = append([]model.Asset{}, assets...)
	return b
}

// WithCreatedAt sets the creation time.
func (b *PortfolioBuilder) WithCreatedAt(createdAt time.Time) *PortfolioBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build appends the portfolio to the stored collection and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, store storage.KeyValueStorage) model.Portfolio {
	t.Helper()

	p := model.Portfolio{
		ID:        b.ID,
		Name:      b.Name,
		Version:   b.Version,
		Assets:    b.Assets,
		CreatedAt: b.CreatedAt,
	}

	err := NewTestPortfolioRepository(t, store).Mutate(context.Background(), func(portfolios []model.Portfolio) ([]model.Portfolio, error) {
		return append(portfolios, p), nil
	})
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return p
}

// Convenience functions

// CreatePortfolio creates a version 1 portfolio with the given name.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, store, "My Portfolio")
func CreatePortfolio(t *testing.T, store storage.KeyValueStorage, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, store)
}

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	stock := testutil.NewStockAsset("ACME", 100, 3).WithWinRate(60).Build()
//	cash := testutil.NewOtherAsset("Cash", 500).Build()
type AssetBuilder struct {
	asset model.Asset
}

// NewStockAsset creates a stock AssetBuilder with amount = quantity * price.
func NewStockAsset(name string, quantity, price float64) *AssetBuilder {
	return &AssetBuilder{asset: model.Asset{
		ID:            MakeID(),
		AssetType:     model.AssetTypeStock,
		AssetName:     name,
		WinRate:       50,
		Amount:        quantity * price,
		StockQuantity: Float(quantity),
		StockPrice:    Float(price),
	}}
}

// NewOtherAsset creates a non-stock AssetBuilder.
func NewOtherAsset(name string, amount float64) *AssetBuilder {
	return &AssetBuilder{asset: model.Asset{
		ID:        MakeID(),
		AssetType: model.AssetTypeOther,
		AssetName: name,
		WinRate:   50,
		Amount:    amount,
	}}
}

// WithWinRate sets the win rate.
func (b *AssetBuilder) WithWinRate(winRate float64) *AssetBuilder {
	b.asset.WinRate = winRate
	return b
}

// Build returns the asset.
func (b *AssetBuilder) Build() model.Asset {
	return b.asset
}
