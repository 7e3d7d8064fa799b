package reconcile

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine merges a change-set into a product's persisted configuration.
//
// A run executes three write stages in order: option resolution, variant
// materialization, and option-value linking (the value position tracker is
// seeded after options resolve and consulted during linking). Stages commit
// independently; there is no cross-stage transaction. A storage failure in
// a later stage can therefore leave options or variants persisted with no
// linked values yet, an orphaned-but-harmless state since nothing references
// the incomplete entities.
//
// Concurrent runs against the same product are not safe: both can observe
// the same position snapshot and mint colliding positions.
type Engine struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(db *gorm.DB, log *zap.Logger) *Engine {
	return &Engine{db: db, log: log}
}

// Apply runs a full reconciliation and returns one summary per input
// variant, in input order. On any stage failure it returns a single error
// and executes no further stages; the caller must inspect current product
// state before resubmitting, since a resubmission is not idempotent.
func (e *Engine) Apply(ctx context.Context, productID uint, set ChangeSet, images map[string]string) (*Result, error) {
	log := e.log.With(zap.Uint("product_id", productID))

	log.Debug("Resolving options",
		zap.Int("requested", len(set.Options)))
	optionIDs, err := resolveOptions(ctx, e.db, productID, set.Options)
	if err != nil {
		return nil, err
	}

	positions, err := loadValuePositions(ctx, e.db, productID)
	if err != nil {
		return nil, err
	}

	log.Debug("Materializing variants",
		zap.Int("requested", len(set.Variants)))
	variants, err := materializeVariants(ctx, e.db, productID, set.Variants, images)
	if err != nil {
		return nil, err
	}

	linked, err := linkValues(ctx, e.db, log, productID, variants, set.Variants, optionIDs, positions)
	if err != nil {
		return nil, err
	}

	created := make([]CreatedVariant, 0, len(variants))
	for i, variant := range variants {
		created = append(created, CreatedVariant{
			ID:           variant.ID,
			Title:        variant.Title,
			Images:       variant.Images,
			OptionValues: linked[i],
		})
	}

	log.Info("Reconciliation complete",
		zap.Int("options_resolved", len(optionIDs)),
		zap.Int("variants_created", len(created)),
	)

	return &Result{CreatedVariants: created}, nil
}
