package reconcile

import (
	"context"
	"fmt"

	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// materializeVariants creates one variant row per change-set entry as a
// single bulk insert, preserving input order.
//
// If the externally-resolved image lookup contains a URL for a variant's
// title, the variant gets a single-element image list; otherwise an empty
// one. Pricing stays null and the default/approval flags stay false
// regardless of the change-set's image fields.
func materializeVariants(ctx context.Context, db *gorm.DB, productID uint, changes []VariantChange, images map[string]string) ([]models.Variant, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	variants := make([]models.Variant, 0, len(changes))
	for _, change := range changes {
		imgs := models.StringSlice{}
		if url, ok := images[change.Title]; ok && url != "" {
			imgs = models.StringSlice{url}
		}
		variants = append(variants, models.Variant{
			ProductID: productID,
			Title:     change.Title,
			Images:    imgs,
			IsDefault: false,
			Approved:  false,
		})
	}

	if err := db.WithContext(ctx).Create(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to create %d variants: %w", len(variants), err)
	}

	return variants, nil
}
