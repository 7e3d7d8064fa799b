package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-manager/core/config"
	"catalog-manager/core/database"
	"catalog-manager/core/logger"
	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	inspectProductID uint
	inspectVerify    bool
)

// inspectCmd prints a product's configuration, optionally auditing it.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a product's option/variant configuration",
	Long: `Print a product's options (with their distinct ordered values) and
variants as JSON.

With --verify, also audit the configuration against the catalog invariants
(label uniqueness, value position stability, position contiguity) and the
database schema, exiting non-zero on violations.

Examples:
  # Print the configuration
  catalog-manager inspect --product 12

  # Audit invariants too
  catalog-manager inspect --product 12 --verify`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().UintVar(&inspectProductID, "product", 0, "Product ID to inspect")
	inspectCmd.Flags().BoolVar(&inspectVerify, "verify", false, "Audit invariants and schema")
	_ = inspectCmd.MarkFlagRequired("product")

	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
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

	view, err := svc.GetConfiguration(ctx, inspectProductID)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Println(string(out))

	if !inspectVerify {
		return nil
	}

	if problems := catalog.CheckSchema(db); len(problems) > 0 {
		for _, p := range problems {
			l.Warn("Schema problem", zap.String("problem", p))
		}
		return fmt.Errorf("schema check failed with %d problems", len(problems))
	}

	report, err := svc.VerifyProduct(ctx, inspectProductID)
	if err != nil {
		return fmt.Errorf("failed to verify product: %w", err)
	}

	for _, orphan := range report.OrphanOptions {
		l.Warn("Option has no values", zap.String("label", orphan))
	}
	for _, orphan := range report.OrphanVariants {
		l.Warn("Variant has no option values", zap.String("title", orphan))
	}

	if !report.Clean() {
		detail, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(detail))
		return fmt.Errorf("integrity check failed for product %d", inspectProductID)
	}

	l.Info("Integrity check passed", zap.Uint("product_id", inspectProductID))
	return nil
}
