package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"catalog-manager/core/config"
	"catalog-manager/core/database"
	"catalog-manager/core/logger"
	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog"
	"catalog-manager/feature/catalog/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	applyProductID uint
	applyFile      string
)

// applyCmd applies a change-set from a JSON file to a product.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a variant change-set to a product",
	Long: `Apply a change-set (desired options and variants) from a JSON file to a
product's configuration.

The change-set format matches the POST /products/{id}/variants request body:

  {
    "options": [{"action": "create", "label": "Color"}],
    "variants": [
      {"title": "Red", "option_values": {"Color": "Red"}},
      {"title": "Blue", "option_values": {"Color": "Blue"}, "generate_image": true}
    ]
  }

Examples:
  # Apply a change-set
  catalog-manager apply --product 12 --file changeset.json`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().UintVar(&applyProductID, "product", 0, "Product ID to reconcile into")
	applyCmd.Flags().StringVar(&applyFile, "file", "", "Path to the change-set JSON file")
	_ = applyCmd.MarkFlagRequired("product")
	_ = applyCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	data, err := os.ReadFile(applyFile)
	if err != nil {
		return fmt.Errorf("failed to read change-set file: %w", err)
	}

	var set reconcile.ChangeSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to parse change-set file: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := catalog.NewService(client, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL, l, db, 0)

	start := time.Now()
	result, err := svc.ApplyChangeSet(ctx, applyProductID, set)
	if err != nil {
		return fmt.Errorf("failed to apply change-set: %w", err)
	}

	l.Info("Change-set applied",
		zap.Uint("product_id", applyProductID),
		zap.Int("variants_created", len(result.CreatedVariants)),
		zap.Duration("elapsed", time.Since(start)),
	)

	out, err := json.MarshalIndent(result.CreatedVariants, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
