package reconcile

import (
	"context"
	"fmt"
	"strings"

	"catalog-manager/feature/catalog/models"

	"gorm.io/gorm"
)

// valuePositions tracks, per option, the value strings already known and the
// stable 1-based position assigned to each distinct value.
//
// The first variant that introduces a brand-new value mints its position;
// every later variant reusing the same value (case-insensitively) receives
// the identical number even though a new row is still inserted for it.
type valuePositions struct {
	// known maps option ID -> lowercased value -> position.
	known map[uint]map[string]int
	// max holds the highest position handed out so far per option.
	max map[uint]int
}

// loadValuePositions seeds a tracker from all persisted option-value rows
// of a product, grouped by option.
func loadValuePositions(ctx context.Context, db *gorm.DB, productID uint) (*valuePositions, error) {
	var rows []models.OptionValue
	if err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load option values for product %d: %w", productID, err)
	}

	vp := &valuePositions{
		known: make(map[uint]map[string]int),
		max:   make(map[uint]int),
	}
	for _, row := range rows {
		values, ok := vp.known[row.OptionID]
		if !ok {
			values = make(map[string]int)
			vp.known[row.OptionID] = values
		}
		values[strings.ToLower(row.Value)] = row.Position
		if row.Position > vp.max[row.OptionID] {
			vp.max[row.OptionID] = row.Position
		}
	}

	return vp, nil
}

// Has reports whether a value is already known for an option,
// under case-insensitive comparison.
func (vp *valuePositions) Has(optionID uint, value string) bool {
	_, ok := vp.known[optionID][strings.ToLower(value)]
	return ok
}

// PositionFor returns the stable position of a value within an option.
// Known values return their previously recorded position; new values are
// assigned the next free position and marked as known as a side effect.
func (vp *valuePositions) PositionFor(optionID uint, value string) int {
	key := strings.ToLower(value)

	if pos, ok := vp.known[optionID][key]; ok {
		return pos
	}

	vp.max[optionID]++
	pos := vp.max[optionID]

	values, ok := vp.known[optionID]
	if !ok {
		values = make(map[string]int)
		vp.known[optionID] = values
	}
	values[key] = pos

	return pos
}
