package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
)

// ValidatePortfolioDocument checks that data is a portfolio document and returns it typed.
// The document must be a JSON object with an assets array, a non-empty string name and a positive
// integer version. Individual assets are decoded as-is and are not re-validated.
// Every failure wraps apperrors.ErrInvalidFormat.
func ValidatePortfolioDocument(data []byte) (model.PortfolioExport, error) {
	var doc model.PortfolioExport

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return doc, fmt.Errorf("%w: document must be a JSON object", apperrors.ErrInvalidFormat)
	}

	rawAssets, ok := fields["assets"]
	if !ok {
		return doc, fmt.Errorf("%w: assets field is missing", apperrors.ErrInvalidFormat)
	}
	var assets []json.RawMessage
	if err := json.Unmarshal(rawAssets, &assets); err != nil || assets == nil {
		return doc, fmt.Errorf("%w: assets must be an array", apperrors.ErrInvalidFormat)
	}

	rawName, ok := fields["name"]
	if !ok {
		return doc, fmt.Errorf("%w: name field is missing", apperrors.ErrInvalidFormat)
	}
	var name string
	if err := json.Unmarshal(rawName, &name); err != nil || strings.TrimSpace(name) == "" {
		return doc, fmt.Errorf("%w: name must be a non-empty string", apperrors.ErrInvalidFormat)
	}

	rawVersion, ok := fields["version"]
	if !ok {
		return doc, fmt.Errorf("%w: version field is missing", apperrors.ErrInvalidFormat)
	}
	var version float64
	if err := json.Unmarshal(rawVersion, &version); err != nil ||
		version < 1 || version != math.Trunc(version) || version > math.MaxInt32 {
		return doc, fmt.Errorf("%w: version must be a positive integer", apperrors.ErrInvalidFormat)
	}

	doc.Assets = make([]model.Asset, 0, len(assets))
	for i, raw := range assets {
		var asset model.Asset
		if err := json.Unmarshal(raw, &asset); err != nil {
			return model.PortfolioExport{}, fmt.Errorf("%w: asset %d: %v", apperrors.ErrInvalidFormat, i, err)
		}
		doc.Assets = append(doc.Assets, asset)
	}
	doc.Name = name
	doc.Version = int(version)

	return doc, nil
}
