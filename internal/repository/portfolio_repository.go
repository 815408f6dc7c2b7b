package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/storage"
)

// PortfolioRepository provides access to the portfolio collection.
// The whole collection is persisted as one JSON array under a single storage key.
type PortfolioRepository struct {
	store storage.KeyValueStorage
	key   string
}

// NewPortfolioRepository creates a new PortfolioRepository storing the collection under key.
func NewPortfolioRepository(store storage.KeyValueStorage, key string) *PortfolioRepository {
	return &PortfolioRepository{store: store, key: key}
}

// GetPortfolios returns every stored portfolio record in insertion order.
// An absent collection is returned as an empty slice.
func (r *PortfolioRepository) GetPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []model.Portfolio{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorageFailure, err)
	}
	return decodeCollection(data)
}

// GetPortfolioOnID returns the record with the given id.
func (r *PortfolioRepository) GetPortfolioOnID(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	portfolios, err := r.GetPortfolios(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}
	for _, p := range portfolios {
		if p.ID == portfolioID {
			return p, nil
		}
	}
	return model.Portfolio{}, apperrors.ErrPortfolioNotFound
}

// GetRawCollection returns the stored collection document, or an empty JSON array when nothing is stored.
func (r *PortfolioRepository) GetRawCollection(ctx context.Context) ([]byte, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorageFailure, err)
	}
	return data, nil
}

// Mutate loads the collection, applies fn and writes the result back as one atomic update.
// Errors returned by fn are passed through unchanged and nothing is written.
// Failures of the storage itself are wrapped with apperrors.ErrStorageFailure.
func (r *PortfolioRepository) Mutate(ctx context.Context, fn func([]model.Portfolio) ([]model.Portfolio, error)) error {
	var fnErr error

	err := r.store.Update(ctx, r.key, func(current []byte) ([]byte, error) {
		portfolios, err := decodeCollection(current)
		if err != nil {
			return nil, err
		}

		next, err := fn(portfolios)
		if err != nil {
			fnErr = err
			return nil, err
		}

		return encodeCollection(next)
	})
	if err == nil {
		return nil
	}
	if fnErr != nil || errors.Is(err, apperrors.ErrStorageFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrStorageFailure, err)
}

func decodeCollection(data []byte) ([]model.Portfolio, error) {
	portfolios := []model.Portfolio{}
	if len(data) == 0 {
		return portfolios, nil
	}
	if err := json.Unmarshal(data, &portfolios); err != nil {
		return nil, fmt.Errorf("%w: failed to decode portfolio collection: %w", apperrors.ErrStorageFailure, err)
	}
	if portfolios == nil {
		portfolios = []model.Portfolio{}
	}
	for i := range portfolios {
		if portfolios[i].Assets == nil {
			portfolios[i].Assets = []model.Asset{}
		}
	}
	return portfolios, nil
}

func encodeCollection(portfolios []model.Portfolio) ([]byte, error) {
	if portfolios == nil {
		portfolios = []model.Portfolio{}
	}
	data, err := json.Marshal(portfolios)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode portfolio collection: %w", apperrors.ErrStorageFailure, err)
	}
	return data, nil
}
