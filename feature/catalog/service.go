package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog/models"
	"catalog-manager/feature/catalog/reconcile"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product ID does not resolve.
var ErrProductNotFound = errors.New("product not found")

// ErrVariantNotFound is returned when a variant ID does not resolve within
// the given product.
var ErrVariantNotFound = errors.New("variant not found")

// Service handles catalog operations for products, options, and variants.
//
// Ownership of the storefront/product is the transport caller's concern;
// the service trusts product IDs it is handed.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
	engine *reconcile.Engine
	images *ImageResolver
	cache  *configCache
}

// NewService creates a new catalog service.
func NewService(client storage.Client, bucket, publicBaseURL string, logger *zap.Logger, db *gorm.DB, cacheTTL time.Duration) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
		engine: reconcile.NewEngine(db, logger),
		images: NewImageResolver(client, bucket, publicBaseURL, logger),
		cache:  newConfigCache(cacheTTL),
	}
}

// ApplyChangeSet merges a change-set into the product's configuration.
// It verifies the product exists, resolves pre-generated variant images,
// runs the reconciliation engine, and invalidates the cached configuration
// view on success.
func (s *Service) ApplyChangeSet(ctx context.Context, productID uint, set reconcile.ChangeSet) (*reconcile.Result, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	images := s.images.Resolve(ctx, productID, set.Variants)

	result, err := s.engine.Apply(ctx, productID, set, images)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(productID)
	return result, nil
}

// GetConfiguration returns the product's read-side configuration view,
// served through the TTL cache.
func (s *Service) GetConfiguration(ctx context.Context, productID uint) (*ProductConfiguration, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	return s.cache.GetOrBuild(productID, func() (*ProductConfiguration, error) {
		return loadConfiguration(ctx, s.db, productID)
	})
}

// VerifyProduct audits the product's rows against the catalog invariants.
func (s *Service) VerifyProduct(ctx context.Context, productID uint) (*IntegrityReport, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return verifyProduct(ctx, s.db, productID)
}

// AttachVariantImage uploads image bytes to the media bucket and points the
// variant's image list at the resulting URL. Returns the public URL.
func (s *Service) AttachVariantImage(ctx context.Context, productID, variantID uint, data []byte, contentType string) (string, error) {
	var variant models.Variant
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&variant, variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrVariantNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load variant %d: %w", variantID, err)
	}

	key := variantObjectKey(productID, variant.Title)
	_, err = s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload variant image: %w", err)
	}

	url := s.images.publicBaseURL + "/" + key
	if err := s.db.WithContext(ctx).
		Model(&variant).
		Update("images", models.StringSlice{url}).Error; err != nil {
		return "", fmt.Errorf("failed to update variant images: %w", err)
	}

	s.cache.Invalidate(productID)
	s.logger.Info("Variant image attached",
		zap.Uint("product_id", productID),
		zap.Uint("variant_id", variantID),
		zap.String("object", key),
	)
	return url, nil
}

func (s *Service) requireProduct(ctx context.Context, productID uint) error {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	return nil
}
