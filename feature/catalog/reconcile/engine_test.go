package reconcile

import (
	"context"
	"sort"
	"strings"
	"testing"

	"catalog-manager/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}

	err = db.AutoMigrate(&models.Product{}, &models.Option{}, &models.OptionValue{}, &models.Variant{})
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	return db
}

func seedProduct(t *testing.T, db *gorm.DB) models.Product {
	product := models.Product{StorefrontID: 1, Name: "T-Shirt"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

func TestApply_EmptyProduct(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	engine := NewEngine(db, zap.NewNop())

	set := ChangeSet{
		Options: []OptionChange{{Action: OptionActionCreate, Label: "Color"}},
		Variants: []VariantChange{
			{Title: "Red", OptionValues: map[string]string{"Color": "Red"}},
			{Title: "Blue", OptionValues: map[string]string{"Color": "Blue"}},
		},
	}

	result, err := engine.Apply(context.Background(), product.ID, set, nil)
	assert.NoError(t, err)
	assert.Len(t, result.CreatedVariants, 2)

	// One new option at position 1
	var options []models.Option
	db.Where("product_id = ?", product.ID).Find(&options)
	assert.Len(t, options, 1)
	assert.Equal(t, "Color", options[0].Label)
	assert.Equal(t, 1, options[0].Position)

	// Two rows with value positions 1 and 2
	var rows []models.OptionValue
	db.Where("product_id = ?", product.ID).Order("position").Find(&rows)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Red", rows[0].Value)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Blue", rows[1].Value)
	assert.Equal(t, 2, rows[1].Position)

	// Output order matches input order
	assert.Equal(t, "Red", result.CreatedVariants[0].Title)
	assert.Equal(t, "Blue", result.CreatedVariants[1].Title)
	assert.Equal(t, map[string]string{"Color": "Red"}, result.CreatedVariants[0].OptionValues)
}

func TestApply_CaseInsensitiveValueReuse(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	engine := NewEngine(db, zap.NewNop())

	first := ChangeSet{
		Options: []OptionChange{{Action: OptionActionCreate, Label: "Color"}},
		Variants: []VariantChange{
			{Title: "Red", OptionValues: map[string]string{"Color": "Red"}},
			{Title: "Blue", OptionValues: map[string]string{"Color": "Blue"}},
		},
	}
	_, err := engine.Apply(context.Background(), product.ID, first, nil)
	assert.NoError(t, err)

	// Second run: lowercase "red" must reuse position 1, not mint 3.
	second := ChangeSet{
		Options: []OptionChange{{Action: OptionActionCreate, Label: "color"}},
		Variants: []VariantChange{
			{Title: "Red v2", OptionValues: map[string]string{"color": "red"}},
		},
	}
	result, err := engine.Apply(context.Background(), product.ID, second, nil)
	assert.NoError(t, err)
	assert.Len(t, result.CreatedVariants, 1)

	// No new option created
	var options []models.Option
	db.Where("product_id = ?", product.ID).Find(&options)
	assert.Len(t, options, 1)

	// New row inserted, but with the existing position
	var rows []models.OptionValue
	db.Where("product_id = ? AND variant_id = ?", product.ID, result.CreatedVariants[0].ID).Find(&rows)
	assert.Len(t, rows, 1)
	assert.Equal(t, "red", rows[0].Value)
	assert.Equal(t, 1, rows[0].Position)
}

func TestApply_PartialMatrix(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	engine := NewEngine(db, zap.NewNop())

	set := ChangeSet{
		Options: []OptionChange{
			{Action: OptionActionCreate, Label: "Color"},
			{Action: OptionActionCreate, Label: "Size"},
		},
		Variants: []VariantChange{
			{Title: "Red", OptionValues: map[string]string{"Color": "Red"}},
			{Title: "Large", OptionValues: map[string]string{"Size": "Large"}},
			{Title: "Blue", OptionValues: map[string]string{"Color": "Blue"}},
		},
	}

	result, err := engine.Apply(context.Background(), product.ID, set, nil)
	assert.NoError(t, err)
	assert.Len(t, result.CreatedVariants, 3)

	// Only the pairs each variant actually specified; nothing synthesized.
	var count int64
	db.Model(&models.OptionValue{}).Where("product_id = ?", product.ID).Count(&count)
	assert.EqualValues(t, 3, count)

	assert.Equal(t, map[string]string{"Size": "Large"}, result.CreatedVariants[1].OptionValues)
}

func TestApply_UnresolvableLabelSkipped(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	engine := NewEngine(db, zap.NewNop())

	set := ChangeSet{
		Options: []OptionChange{{Action: OptionActionCreate, Label: "Color"}},
		Variants: []VariantChange{
			{Title: "Red XL", OptionValues: map[string]string{"Color": "Red", "Size": "XL"}},
		},
	}

	result, err := engine.Apply(context.Background(), product.ID, set, nil)
	assert.NoError(t, err)
	assert.Len(t, result.CreatedVariants, 1)

	// Variant still created; only the unresolvable pair dropped.
	assert.Equal(t, map[string]string{"Color": "Red"}, result.CreatedVariants[0].OptionValues)

	var rows []models.OptionValue
	db.Where("variant_id = ?", result.CreatedVariants[0].ID).Find(&rows)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Red", rows[0].Value)
}

func TestApply_ExplicitUpdateNeverCreates(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	engine := NewEngine(db, zap.NewNop())

	opt := models.Option{ProductID: product.ID, Label: "Color", Position: 1}
	assert.NoError(t, db.Create(&opt).Error)

	set := ChangeSet{
		Options: []OptionChange{{Action: OptionActionUpdate, ID: opt.ID, Label: "Color"}},
		Variants: []VariantChange{
			{Title: "Red", OptionValues: map[string]string{"Color": "Red"}},
		},
	}

	for i := 0; i < 2; i++ {
		_, err := engine.Apply(context.Background(), product.ID, set, nil)
		assert.NoError(t, err)
	}

	var count int64
	db.Model(&models.Option{}).Where("product_id = ?", product.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestApply_ImagesAttached(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	engine := NewEngine(db, zap.NewNop())

	set := ChangeSet{
		Options: []OptionChange{{Action: OptionActionCreate, Label: "Color"}},
		Variants: []VariantChange{
			{Title: "Red", OptionValues: map[string]string{"Color": "Red"}, GenerateImage: true, ImagePrompt: "a red shirt"},
			{Title: "Blue", OptionValues: map[string]string{"Color": "Blue"}},
		},
	}
	images := map[string]string{"Red": "https://media.example.com/catalog/variants/1/red.png"}

	result, err := engine.Apply(context.Background(), product.ID, set, images)
	assert.NoError(t, err)
	assert.Equal(t, models.StringSlice{"https://media.example.com/catalog/variants/1/red.png"}, result.CreatedVariants[0].Images)
	assert.Empty(t, result.CreatedVariants[1].Images)
}

// TestApply_PositionInvariants runs two overlapping change-sets and checks
// that value positions stay stable, contiguous, and collision-free.
func TestApply_PositionInvariants(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db)
	engine := NewEngine(db, zap.NewNop())

	sets := []ChangeSet{
		{
			Options: []OptionChange{
				{Action: OptionActionCreate, Label: "Color"},
				{Action: OptionActionCreate, Label: "Size"},
			},
			Variants: []VariantChange{
				{Title: "Red S", OptionValues: map[string]string{"Color": "Red", "Size": "S"}},
				{Title: "Red M", OptionValues: map[string]string{"Color": "Red", "Size": "M"}},
			},
		},
		{
			Options: []OptionChange{
				{Action: OptionActionCreate, Label: "color"},
				{Action: OptionActionCreate, Label: "Material"},
			},
			Variants: []VariantChange{
				{Title: "Green M", OptionValues: map[string]string{"Color": "Green", "Size": "M", "Material": "Cotton"}},
				{Title: "RED L", OptionValues: map[string]string{"Color": "RED", "Size": "L"}},
			},
		},
	}

	for _, set := range sets {
		_, err := engine.Apply(context.Background(), product.ID, set, nil)
		assert.NoError(t, err)
	}

	// Label uniqueness under case-insensitive comparison
	var options []models.Option
	db.Where("product_id = ?", product.ID).Find(&options)
	assert.Len(t, options, 3)

	var rows []models.OptionValue
	db.Where("product_id = ?", product.ID).Find(&rows)

	byOption := make(map[uint][]models.OptionValue)
	for _, row := range rows {
		byOption[row.OptionID] = append(byOption[row.OptionID], row)
	}

	for optionID, optionRows := range byOption {
		// Equal values carry equal positions
		positionByValue := make(map[string]int)
		distinct := make(map[int]struct{})
		for _, row := range optionRows {
			key := row.Value
			// Case-insensitive identity
			if prev, ok := positionByValue[strings.ToLower(key)]; ok {
				assert.Equal(t, prev, row.Position, "option %d value %q", optionID, key)
			} else {
				positionByValue[strings.ToLower(key)] = row.Position
			}
			distinct[row.Position] = struct{}{}
		}

		// Distinct positions are 1..N with no gaps
		positions := make([]int, 0, len(distinct))
		for p := range distinct {
			positions = append(positions, p)
		}
		sort.Ints(positions)
		for i, p := range positions {
			assert.Equal(t, i+1, p, "option %d positions %v", optionID, positions)
		}
	}
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// TestApply_LinkInsertFailure simulates a storage failure during the final
// bulk insert, after options and variants were already persisted. The run
// must surface a single error; the earlier stages remain committed.
func TestApply_LinkInsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	optionCols := []string{"id", "product_id", "label", "position", "created_at"}
	mock.ExpectQuery("SELECT \\* FROM `product_options`").
		WillReturnRows(sqlmock.NewRows(optionCols).AddRow(5, 1, "Color", 1, nil))

	valueCols := []string{"id", "option_id", "variant_id", "product_id", "value", "position"}
	mock.ExpectQuery("SELECT \\* FROM `product_option_values`").
		WillReturnRows(sqlmock.NewRows(valueCols))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `product_variants`").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `product_option_values`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	set := ChangeSet{
		Options: []OptionChange{{Action: OptionActionUpdate, ID: 5, Label: "Color"}},
		Variants: []VariantChange{
			{Title: "Red", OptionValues: map[string]string{"Color": "Red"}},
		},
	}

	result, err := engine.Apply(context.Background(), 1, set, nil)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "option value rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestApply_OptionLoadFailure aborts before any write happens.
func TestApply_OptionLoadFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	engine := NewEngine(db, zap.NewNop())

	mock.ExpectQuery("SELECT \\* FROM `product_options`").
		WillReturnError(assert.AnError)

	result, err := engine.Apply(context.Background(), 1, ChangeSet{
		Options: []OptionChange{{Action: OptionActionCreate, Label: "Color"}},
	}, nil)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
