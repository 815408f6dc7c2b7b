package validation

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidPortfolioID is returned when a portfolio record id is not a UUID.
var ErrInvalidPortfolioID = fmt.Errorf("invalid portfolio ID")

// ValidatePortfolioID checks a portfolio record id. Every version of a lineage has its own id,
// generated with uuid.NewString on create, save and import.
func ValidatePortfolioID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q is not a UUID", ErrInvalidPortfolioID, id)
	}
	return nil
}
