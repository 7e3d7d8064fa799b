package reconcile

import (
	"context"
	"testing"

	"catalog-manager/feature/catalog/models"

	"github.com/stretchr/testify/assert"
)

func TestValuePositions_SeedFromPersistedRows(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)

	rows := []models.OptionValue{
		{OptionID: 1, VariantID: 10, ProductID: product.ID, Value: "Red", Position: 1},
		{OptionID: 1, VariantID: 11, ProductID: product.ID, Value: "Blue", Position: 2},
		{OptionID: 1, VariantID: 12, ProductID: product.ID, Value: "red", Position: 1},
		{OptionID: 2, VariantID: 10, ProductID: product.ID, Value: "Large", Position: 1},
	}
	assert.NoError(t, db.Create(&rows).Error)

	vp, err := loadValuePositions(context.Background(), db, product.ID)
	assert.NoError(t, err)

	assert.True(t, vp.Has(1, "RED"))
	assert.True(t, vp.Has(2, "large"))
	assert.False(t, vp.Has(2, "Red"))

	// Known values return their recorded position.
	assert.Equal(t, 1, vp.PositionFor(1, "red"))
	assert.Equal(t, 2, vp.PositionFor(1, "Blue"))

	// A new value continues from the per-option maximum.
	assert.Equal(t, 3, vp.PositionFor(1, "Green"))
	assert.Equal(t, 2, vp.PositionFor(2, "Small"))
}

func TestValuePositions_FirstReferenceMints(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)

	vp, err := loadValuePositions(context.Background(), db, product.ID)
	assert.NoError(t, err)

	// Minting marks the value as known; reuse returns the same number.
	assert.False(t, vp.Has(7, "Red"))
	assert.Equal(t, 1, vp.PositionFor(7, "Red"))
	assert.True(t, vp.Has(7, "red"))
	assert.Equal(t, 1, vp.PositionFor(7, "RED"))
	assert.Equal(t, 2, vp.PositionFor(7, "Blue"))
}

func TestValuePositions_OptionsAreIndependent(t *testing.T) {
	vp := &valuePositions{
		known: make(map[uint]map[string]int),
		max:   make(map[uint]int),
	}

	assert.Equal(t, 1, vp.PositionFor(1, "Red"))
	assert.Equal(t, 1, vp.PositionFor(2, "Red"))
	assert.Equal(t, 2, vp.PositionFor(1, "Blue"))
	assert.Equal(t, 2, vp.PositionFor(2, "Large"))
}
