package reconcile

import (
	"context"
	"fmt"
	"strings"

	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// resolveOptions maps each requested option label to a concrete option ID.
//
// Explicit "update" entries bind directly to the supplied ID (the caller is
// trusted). Other entries reuse a persisted option whose label matches
// case-insensitively, or create a new option at the next free position.
// At most one option is created per previously-unseen label.
//
// The returned map is keyed by lowercased label. A storage failure aborts
// the run; options already created earlier in the loop are not rolled back.
func resolveOptions(ctx context.Context, db *gorm.DB, productID uint, changes []OptionChange) (map[string]uint, error) {
	var existing []models.Option
	if err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load options for product %d: %w", productID, err)
	}

	byLabel := make(map[string]models.Option, len(existing))
	maxPosition := 0
	for _, opt := range existing {
		byLabel[strings.ToLower(opt.Label)] = opt
		if opt.Position > maxPosition {
			maxPosition = opt.Position
		}
	}

	ids := make(map[string]uint, len(changes))
	for _, change := range changes {
		key := strings.ToLower(change.Label)

		if change.Action == OptionActionUpdate && change.ID != 0 {
			ids[key] = change.ID
			continue
		}

		if opt, ok := byLabel[key]; ok {
			ids[key] = opt.ID
			continue
		}

		maxPosition++
		opt := models.Option{
			ProductID: productID,
			Label:     change.Label,
			Position:  maxPosition,
		}
		if err := db.WithContext(ctx).Create(&opt).Error; err != nil {
			return nil, fmt.Errorf("failed to create option %q: %w", change.Label, err)
		}

		byLabel[key] = opt
		ids[key] = opt.ID
	}

	return ids, nil
}
