package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidFormat indicates that an imported document does not have the portfolio shape
	// (an object with an assets array, a name and a version).
	ErrInvalidFormat = errors.New("invalid portfolio format")

	// ErrPortfolioVersionFrozen indicates that the portfolio record has been superseded by a newer
	// version of the same lineage and can no longer be changed.
	ErrPortfolioVersionFrozen = errors.New("portfolio version is frozen")

	// ErrNoPendingChanges indicates a save request without unsaved asset changes.
	ErrNoPendingChanges = errors.New("no pending changes to save")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	// ErrStorageFailure indicates that reading or writing the persisted collection failed.
	// The operation was not committed.
	ErrStorageFailure = errors.New("storage failure")

	ErrFailedToRetrievePortfolios = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrievePortfolio  = errors.New("failed to retrieve portfolio")
	ErrFailedToCreatePortfolio    = errors.New("failed to create portfolio")
	ErrFailedToAppendAsset        = errors.New("failed to append asset")
	ErrFailedToSaveVersion        = errors.New("failed to save portfolio version")
	ErrFailedToImportPortfolio    = errors.New("failed to import portfolio")
	ErrFailedToExportPortfolio    = errors.New("failed to export portfolio")
	ErrFailedToGetAllocation      = errors.New("failed to get portfolio allocation")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
