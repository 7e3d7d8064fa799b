package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"catalog-manager/core/database"
	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// IntegrityReport describes violations of the catalog's structural
// invariants for a single product. An empty report means the configuration
// is consistent.
type IntegrityReport struct {
	ProductID uint `json:"product_id"`

	// DuplicateLabels lists option labels shared by more than one option
	// under case-insensitive comparison.
	DuplicateLabels []string `json:"duplicate_labels"`

	// PositionConflicts lists values whose rows disagree on position within
	// an option.
	PositionConflicts []string `json:"position_conflicts"`

	// PositionGaps lists options whose distinct value positions are not
	// contiguous from 1.
	PositionGaps []string `json:"position_gaps"`

	// OrphanOptions lists options with no value rows. These can result from
	// a reconciliation that failed after option creation.
	OrphanOptions []string `json:"orphan_options"`

	// OrphanVariants lists variants with no linked option values, the other
	// partial-commit leftover.
	OrphanVariants []string `json:"orphan_variants"`
}

// Clean reports whether no violations were found. Orphans are reported but
// do not make a configuration unclean: they are a documented, harmless
// partial-commit state.
func (r *IntegrityReport) Clean() bool {
	return len(r.DuplicateLabels) == 0 &&
		len(r.PositionConflicts) == 0 &&
		len(r.PositionGaps) == 0
}

// verifyProduct audits a product's persisted rows against the engine's
// invariants: label uniqueness, value position stability, and position
// contiguity. It also surfaces orphaned options and variants.
func verifyProduct(ctx context.Context, db *gorm.DB, productID uint) (*IntegrityReport, error) {
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
		Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to load variants for product %d: %w", productID, err)
	}

	report := &IntegrityReport{
		ProductID:         productID,
		DuplicateLabels:   []string{},
		PositionConflicts: []string{},
		PositionGaps:      []string{},
		OrphanOptions:     []string{},
		OrphanVariants:    []string{},
	}

	// Label uniqueness
	seenLabels := make(map[string]string)
	for _, opt := range options {
		key := strings.ToLower(opt.Label)
		if first, ok := seenLabels[key]; ok {
			report.DuplicateLabels = append(report.DuplicateLabels,
				fmt.Sprintf("%q duplicates %q", opt.Label, first))
			continue
		}
		seenLabels[key] = opt.Label
	}

	rowsByOption := make(map[uint][]models.OptionValue)
	for _, row := range rows {
		rowsByOption[row.OptionID] = append(rowsByOption[row.OptionID], row)
	}

	for _, opt := range options {
		optionRows := rowsByOption[opt.ID]
		if len(optionRows) == 0 {
			report.OrphanOptions = append(report.OrphanOptions, opt.Label)
			continue
		}

		// Position stability: equal values must carry equal positions.
		positionByValue := make(map[string]int)
		distinct := make(map[int]struct{})
		for _, row := range optionRows {
			key := strings.ToLower(row.Value)
			if prev, ok := positionByValue[key]; ok && prev != row.Position {
				report.PositionConflicts = append(report.PositionConflicts,
					fmt.Sprintf("option %q value %q: positions %d and %d", opt.Label, row.Value, prev, row.Position))
			} else {
				positionByValue[key] = row.Position
			}
			distinct[row.Position] = struct{}{}
		}

		// Contiguity: distinct positions must be 1..N.
		positions := make([]int, 0, len(distinct))
		for p := range distinct {
			positions = append(positions, p)
		}
		sort.Ints(positions)
		for i, p := range positions {
			if p != i+1 {
				report.PositionGaps = append(report.PositionGaps,
					fmt.Sprintf("option %q: distinct positions %v", opt.Label, positions))
				break
			}
		}
	}

	linkedVariants := make(map[uint]struct{})
	for _, row := range rows {
		linkedVariants[row.VariantID] = struct{}{}
	}
	for _, variant := range variants {
		if _, ok := linkedVariants[variant.ID]; !ok {
			report.OrphanVariants = append(report.OrphanVariants, variant.Title)
		}
	}

	return report, nil
}

// requiredColumns maps each catalog table to the columns the engine writes.
var requiredColumns = map[string][]string{
	models.Option{}.TableName():      {"id", "product_id", "label", "position"},
	models.OptionValue{}.TableName(): {"id", "option_id", "variant_id", "product_id", "value", "position"},
	models.Variant{}.TableName():     {"id", "product_id", "title", "images", "is_default", "approved"},
}

// CheckSchema verifies that the catalog tables exist and carry the columns
// the engine writes. Used by the inspect command before trusting a store.
func CheckSchema(db *gorm.DB) []string {
	var problems []string

	for table, required := range requiredColumns {
		columns, err := database.GetTableColumns(db, table)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", table, err))
			continue
		}

		present := make(map[string]struct{}, len(columns))
		for _, col := range columns {
			present[col.Field] = struct{}{}
		}
		for _, name := range required {
			if _, ok := present[name]; !ok {
				problems = append(problems, fmt.Sprintf("%s: missing column %q", table, name))
			}
		}
	}

	sort.Strings(problems)
	return problems
}
