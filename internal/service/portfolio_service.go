package service

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/balance"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/validation"
)

// PortfolioService handles portfolio business rules: versioned lineages, asset construction,
// import/export documents and the aggregated list views.
// Every mutation is a single read-modify-write of the collection through the repository.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	currency      string
	now           func() time.Time
}

// ExportFile is a serialized portfolio document together with its suggested file name.
type ExportFile struct {
	Filename string
	Data     []byte
}

// NewPortfolioService creates a new PortfolioService.
// currency is the ISO code used for formatted totals. A nil now defaults to the current UTC time.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	currency string,
	now func() time.Time,
) *PortfolioService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		currency:      currency,
		now:           now,
	}
}

// CreatePortfolio starts a new version of the named lineage.
// The version is one more than the highest existing version with exactly this name, or 1.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (model.Portfolio, error) {
	if err := validation.ValidateCreatePortfolio(req); err != nil {
		return model.Portfolio{}, err
	}

	var created model.Portfolio
	err := s.portfolioRepo.Mutate(ctx, func(portfolios []model.Portfolio) ([]model.Portfolio, error) {
		created = model.Portfolio{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Version:   maxVersion(portfolios, req.Name) + 1,
			Assets:    []model.Asset{},
			CreatedAt: s.now(),
		}
		return append(portfolios, created), nil
	})
	if err != nil {
		return model.Portfolio{}, err
	}

	log.Debug().Str("portfolio_id", created.ID).Str("name", created.Name).Int("version", created.Version).Msg("created portfolio")
	return created, nil
}

// AppendAsset adds an asset to the portfolio record in place. The record keeps its id and version.
// Stock amounts are derived from quantity and price; other assets keep the supplied amount.
func (s *PortfolioService) AppendAsset(ctx context.Context, portfolioID string, req request.AddAssetRequest) (model.Portfolio, error) {
	if err := validation.ValidateAddAsset(req); err != nil {
		return model.Portfolio{}, err
	}

	asset := newAsset(req)

	var updated model.Portfolio
	err := s.portfolioRepo.Mutate(ctx, func(portfolios []model.Portfolio) ([]model.Portfolio, error) {
		idx := indexOf(portfolios, portfolioID)
		if idx < 0 {
			return nil, apperrors.ErrPortfolioNotFound
		}
		if isFrozen(portfolios, portfolios[idx]) {
			return nil, fmt.Errorf("%w: %s v%d", apperrors.ErrPortfolioVersionFrozen, portfolios[idx].Name, portfolios[idx].Version)
		}

		assets := portfolios[idx].CloneAssets()
		portfolios[idx].Assets = append(assets, asset)
		updated = portfolios[idx]
		return portfolios, nil
	})
	if err != nil {
		return model.Portfolio{}, err
	}

	log.Debug().Str("portfolio_id", portfolioID).Str("asset_id", asset.ID).Float64("amount", asset.Amount).Msg("appended asset")
	return updated, nil
}

// SaveNewVersion snapshots the portfolio as a new record of the next version.
// The source record is left untouched. The request carries the caller's pending-changes flag.
func (s *PortfolioService) SaveNewVersion(ctx context.Context, portfolioID string, req request.SaveVersionRequest) (model.Portfolio, error) {
	var saved model.Portfolio
	err := s.portfolioRepo.Mutate(ctx, func(portfolios []model.Portfolio) ([]model.Portfolio, error) {
		idx := indexOf(portfolios, portfolioID)
		if idx < 0 {
			return nil, apperrors.ErrPortfolioNotFound
		}
		if !req.PendingChanges() {
			return nil, apperrors.ErrNoPendingChanges
		}

		current := portfolios[idx]
		if isFrozen(portfolios, current) {
			return nil, fmt.Errorf("%w: %s v%d", apperrors.ErrPortfolioVersionFrozen, current.Name, current.Version)
		}

		saved = model.Portfolio{
			ID:        uuid.NewString(),
			Name:      current.Name,
			Version:   current.Version + 1,
			Assets:    current.CloneAssets(),
			CreatedAt: s.now(),
		}
		return append(portfolios, saved), nil
	})
	if err != nil {
		return model.Portfolio{}, err
	}

	log.Debug().Str("portfolio_id", saved.ID).Str("source_id", portfolioID).Int("version", saved.Version).Msg("saved new portfolio version")
	return saved, nil
}

// GetPortfolio returns a single portfolio record.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
}

// ListLatest returns the latest version of every lineage, most recently created first.
// When a lineage holds several records of its highest version, the later created one wins.
func (s *PortfolioService) ListLatest(ctx context.Context) ([]model.PortfolioListItem, error) {
	portfolios, err := s.portfolioRepo.GetPortfolios(ctx)
	if err != nil {
		return nil, err
	}

	latest := latestByName(portfolios)

	items := make([]model.PortfolioListItem, 0, len(latest))
	for _, p := range latest {
		total := totalAmount(p.Assets)
		items = append(items, model.PortfolioListItem{
			ID:             p.ID,
			Name:           p.Name,
			Version:        p.Version,
			AssetCount:     len(p.Assets),
			TotalAmount:    total.InexactFloat64(),
			FormattedTotal: s.FormatAmount(total.InexactFloat64()),
			CreatedAt:      p.CreatedAt,
		})
	}

	slices.SortStableFunc(items, func(a, b model.PortfolioListItem) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return items, nil
}

// ListVersions returns every record of the named lineage ordered by version.
func (s *PortfolioService) ListVersions(ctx context.Context, name string) ([]model.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &validation.Error{Fields: map[string]string{"name": "name is required"}}
	}

	portfolios, err := s.portfolioRepo.GetPortfolios(ctx)
	if err != nil {
		return nil, err
	}

	versions := []model.Portfolio{}
	for _, p := range portfolios {
		if p.Name == name {
			versions = append(versions, p)
		}
	}
	slices.SortStableFunc(versions, func(a, b model.Portfolio) int {
		return cmp.Or(cmp.Compare(a.Version, b.Version), a.CreatedAt.Compare(b.CreatedAt))
	})

	return versions, nil
}

// ImportPortfolio adds a portfolio document as a new record with a fresh id and creation time.
// Name, version and assets are kept exactly as supplied.
func (s *PortfolioService) ImportPortfolio(ctx context.Context, data []byte) (model.Portfolio, error) {
	doc, err := validation.ValidatePortfolioDocument(data)
	if err != nil {
		return model.Portfolio{}, err
	}

	imported := model.Portfolio{
		ID:      uuid.NewString(),
		Name:    doc.Name,
		Version: doc.Version,
		Assets:  doc.Assets,
	}

	err = s.portfolioRepo.Mutate(ctx, func(portfolios []model.Portfolio) ([]model.Portfolio, error) {
		imported.CreatedAt = s.now()
		return append(portfolios, imported), nil
	})
	if err != nil {
		return model.Portfolio{}, err
	}

	log.Debug().Str("portfolio_id", imported.ID).Str("name", imported.Name).Int("version", imported.Version).Msg("imported portfolio")
	return imported, nil
}

// ExportPortfolio serializes a record without its id as an indented JSON document.
// The suggested file name is {name}_v{version}.json.
func (s *PortfolioService) ExportPortfolio(ctx context.Context, portfolioID string) (ExportFile, error) {
	p, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
	if err != nil {
		return ExportFile{}, err
	}

	doc := model.PortfolioExport{
		Name:      p.Name,
		Version:   p.Version,
		Assets:    p.Assets,
		CreatedAt: p.CreatedAt,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to encode portfolio document: %w", err)
	}

	return ExportFile{
		Filename: ExportFilename(p),
		Data:     data,
	}, nil
}

// GetAllocation returns the weight of every asset in the portfolio total together with the
// equal weight each asset would get in a fixed-balance portfolio.
func (s *PortfolioService) GetAllocation(ctx context.Context, portfolioID string) (model.PortfolioAllocation, error) {
	p, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
	if err != nil {
		return model.PortfolioAllocation{}, err
	}

	total := totalAmount(p.Assets)

	weights := make([]float64, len(p.Assets))
	if !total.IsZero() {
		for i, a := range p.Assets {
			weights[i] = decimal.NewFromFloat(a.Amount).Div(total).Round(6).InexactFloat64()
		}
	}
	equal := balance.FixedBalance(weights)

	allocations := make([]model.AssetAllocation, len(p.Assets))
	for i, a := range p.Assets {
		allocations[i] = model.AssetAllocation{
			AssetID:     a.ID,
			AssetName:   a.AssetName,
			Amount:      a.Amount,
			Weight:      weights[i],
			EqualWeight: equal[i],
		}
	}

	return model.PortfolioAllocation{
		PortfolioID: p.ID,
		Name:        p.Name,
		Version:     p.Version,
		TotalAmount: total.InexactFloat64(),
		Assets:      allocations,
	}, nil
}

// FormatAmount renders amount in the configured display currency.
func (s *PortfolioService) FormatAmount(amount float64) string {
	return money.NewFromFloat(amount, s.currency).Display()
}

// ExportFilename returns the suggested file name of an exported portfolio.
func ExportFilename(p model.Portfolio) string {
	return fmt.Sprintf("%s_v%d.json", p.Name, p.Version)
}

func newAsset(req request.AddAssetRequest) model.Asset {
	asset := model.Asset{
		ID:        uuid.NewString(),
		AssetType: model.AssetType(req.AssetType),
		AssetName: req.AssetName,
		WinRate:   *req.WinRate,
	}

	if asset.IsStock() {
		quantity, price := *req.StockQuantity, *req.StockPrice
		asset.StockQuantity = &quantity
		asset.StockPrice = &price
		asset.Amount = quantity * price
		return asset
	}

	asset.Amount = *req.Amount
	return asset
}

func indexOf(portfolios []model.Portfolio, portfolioID string) int {
	return slices.IndexFunc(portfolios, func(p model.Portfolio) bool {
		return p.ID == portfolioID
	})
}

func maxVersion(portfolios []model.Portfolio, name string) int {
	latest := 0
	for _, p := range portfolios {
		if p.Name == name && p.Version > latest {
			latest = p.Version
		}
	}
	return latest
}

// isFrozen reports whether a newer version of the same lineage exists.
func isFrozen(portfolios []model.Portfolio, p model.Portfolio) bool {
	return maxVersion(portfolios, p.Name) > p.Version
}

func latestByName(portfolios []model.Portfolio) []model.Portfolio {
	byName := make(map[string]int)
	latest := []model.Portfolio{}

	for _, p := range portfolios {
		idx, ok := byName[p.Name]
		if !ok {
			byName[p.Name] = len(latest)
			latest = append(latest, p)
			continue
		}

		// Strictly greater, so the first record of a duplicated version is kept.
		if p.Version > latest[idx].Version {
			latest[idx] = p
		}
	}
	return latest
}

func totalAmount(assets []model.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(decimal.NewFromFloat(a.Amount))
	}
	return total
}
