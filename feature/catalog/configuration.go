package catalog

import (
	"context"
	"fmt"
	"sort"

	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// ConfiguredValue is one distinct value of an option in the read-side view.
type ConfiguredValue struct {
	Value    string `json:"value"`
	Position int    `json:"position"`
}

// ConfiguredOption is one option with its distinct values, ordered by
// value position.
type ConfiguredOption struct {
	ID       uint              `json:"id"`
	Label    string            `json:"label"`
	Position int               `json:"position"`
	Values   []ConfiguredValue `json:"values"`
}

// ConfiguredVariant is one variant with its resolved option-value pairs.
type ConfiguredVariant struct {
	ID           uint               `json:"id"`
	Title        string             `json:"title"`
	Images       models.StringSlice `json:"images"`
	OptionValues map[string]string  `json:"option_values"`
	IsDefault    bool               `json:"is_default"`
	Approved     bool               `json:"approved"`
}

// ProductConfiguration is the denormalized read-side view of a product's
// options, values, and variants.
type ProductConfiguration struct {
	ProductID uint                `json:"product_id"`
	Options   []ConfiguredOption  `json:"options"`
	Variants  []ConfiguredVariant `json:"variants"`
}

// loadConfiguration builds the configuration view from the three catalog
// tables. Options are ordered by position, distinct values by the position
// the engine assigned them, variants by creation order.
func loadConfiguration(ctx context.Context, db *gorm.DB, productID uint) (*ProductConfiguration, error) {
	var options []models.Option
	if err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position").
		Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to load options for product %d: %w", productID, err)
	}

	var rows []models.OptionValue
	if err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load option values for product %d: %w", productID, err)
	}

	var variants []models.Variant
	if err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to load variants for product %d: %w", productID, err)
	}

	labelByOption := make(map[uint]string, len(options))
	for _, opt := range options {
		labelByOption[opt.ID] = opt.Label
	}

	// Distinct values per option: many rows share one value, keyed by the
	// position the value was minted with.
	valuesByOption := make(map[uint]map[int]string)
	pairsByVariant := make(map[uint]map[string]string)
	for _, row := range rows {
		positions, ok := valuesByOption[row.OptionID]
		if !ok {
			positions = make(map[int]string)
			valuesByOption[row.OptionID] = positions
		}
		if _, seen := positions[row.Position]; !seen {
			positions[row.Position] = row.Value
		}

		if label, ok := labelByOption[row.OptionID]; ok {
			pairs, ok := pairsByVariant[row.VariantID]
			if !ok {
				pairs = make(map[string]string)
				pairsByVariant[row.VariantID] = pairs
			}
			pairs[label] = row.Value
		}
	}

	cfg := &ProductConfiguration{
		ProductID: productID,
		Options:   make([]ConfiguredOption, 0, len(options)),
		Variants:  make([]ConfiguredVariant, 0, len(variants)),
	}

	for _, opt := range options {
		values := make([]ConfiguredValue, 0, len(valuesByOption[opt.ID]))
		for position, value := range valuesByOption[opt.ID] {
			values = append(values, ConfiguredValue{Value: value, Position: position})
		}
		sort.Slice(values, func(i, j int) bool {
			return values[i].Position < values[j].Position
		})
		cfg.Options = append(cfg.Options, ConfiguredOption{
			ID:       opt.ID,
			Label:    opt.Label,
			Position: opt.Position,
			Values:   values,
		})
	}

	for _, variant := range variants {
		pairs := pairsByVariant[variant.ID]
		if pairs == nil {
			pairs = map[string]string{}
		}
		cfg.Variants = append(cfg.Variants, ConfiguredVariant{
			ID:           variant.ID,
			Title:        variant.Title,
			Images:       variant.Images,
			OptionValues: pairs,
			IsDefault:    variant.IsDefault,
			Approved:     variant.Approved,
		})
	}

	return cfg, nil
}
