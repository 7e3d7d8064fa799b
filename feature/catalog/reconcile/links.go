package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"catalog-manager/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// linkValues produces one option-value row per (variant, option, value)
// triple implied by each variant's option-value map, then bulk-inserts all
// staged rows in one batch.
//
// Variants are processed in input order; within a variant, pairs are taken
// in sorted-label order so runs are deterministic. A pair whose label was
// never resolved to an option is skipped and logged, never fatal. The
// returned maps hold the pairs actually linked, aligned with the variants
// slice.
func linkValues(
	ctx context.Context,
	db *gorm.DB,
	log *zap.Logger,
	productID uint,
	variants []models.Variant,
	changes []VariantChange,
	optionIDs map[string]uint,
	positions *valuePositions,
) ([]map[string]string, error) {
	staged := make([]models.OptionValue, 0)
	linked := make([]map[string]string, len(variants))

	for i, variant := range variants {
		linked[i] = make(map[string]string)

		labels := make([]string, 0, len(changes[i].OptionValues))
		for label := range changes[i].OptionValues {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		for _, label := range labels {
			value := changes[i].OptionValues[label]

			optionID, ok := optionIDs[strings.ToLower(label)]
			if !ok {
				log.Warn("Skipping unresolvable option label",
					zap.Uint("product_id", productID),
					zap.String("variant_title", variant.Title),
					zap.String("label", label),
				)
				continue
			}

			staged = append(staged, models.OptionValue{
				OptionID:  optionID,
				VariantID: variant.ID,
				ProductID: productID,
				Value:     value,
				Position:  positions.PositionFor(optionID, value),
			})
			linked[i][label] = value
		}
	}

	if len(staged) > 0 {
		if err := db.WithContext(ctx).Create(&staged).Error; err != nil {
			return nil, fmt.Errorf("failed to create %d option value rows: %w", len(staged), err)
		}
	}

	return linked, nil
}
