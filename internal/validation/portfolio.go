package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
)

// maxNameLength limits portfolio and asset names, counted in characters.
const maxNameLength = 100

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if utf8.RuneCountInString(req.Name) > maxNameLength {
		errors["name"] = "name must be 100 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateAddAsset checks an asset submission.
// Stock assets need a quantity and a price; other assets need an amount. All of them must be non-negative.
func ValidateAddAsset(req request.AddAssetRequest) error {
	errors := make(map[string]string)

	assetType := model.AssetType(req.AssetType)
	if req.AssetType == "" {
		errors["assetType"] = "assetType is required"
	} else if !model.ValidAssetTypes[assetType] {
		errors["assetType"] = "assetType must be one of: stock, other"
	}

	if strings.TrimSpace(req.AssetName) == "" {
		errors["assetName"] = "assetName is required"
	} else if utf8.RuneCountInString(req.AssetName) > maxNameLength {
		errors["assetName"] = "assetName must be 100 characters or less"
	}

	if req.WinRate == nil {
		errors["winRate"] = "winRate is required"
	} else if *req.WinRate < 0 || *req.WinRate > 100 {
		errors["winRate"] = "winRate must be between 0 and 100"
	}

	switch assetType {
	case model.AssetTypeStock:
		if req.StockQuantity == nil {
			errors["stockQuantity"] = "stockQuantity is required for stock assets"
		} else if *req.StockQuantity < 0 {
			errors["stockQuantity"] = "stockQuantity must be zero or positive"
		}
		if req.StockPrice == nil {
			errors["stockPrice"] = "stockPrice is required for stock assets"
		} else if *req.StockPrice < 0 {
			errors["stockPrice"] = "stockPrice must be zero or positive"
		}
	case model.AssetTypeOther:
		if req.Amount == nil {
			errors["amount"] = "amount is required"
		} else if *req.Amount < 0 {
			errors["amount"] = "amount must be zero or positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
