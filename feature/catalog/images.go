package catalog

import (
	"context"
	"fmt"
	"strings"

	"catalog-manager/core/storage"
	"catalog-manager/core/utils"
	"catalog-manager/feature/catalog/reconcile"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ImageResolver maps variant titles to public media URLs.
//
// The image generator is a separate subsystem that writes objects to the
// media bucket out of band under variants/<productID>/<slug>.png. The
// resolver only reports which of those objects exist; the reconciliation
// engine consumes the resulting title -> URL lookup and never talks to the
// generator or the bucket itself.
type ImageResolver struct {
	client        storage.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewImageResolver creates an image resolver backed by the media bucket.
func NewImageResolver(client storage.Client, bucket, publicBaseURL string, logger *zap.Logger) *ImageResolver {
	return &ImageResolver{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        logger,
	}
}

// variantObjectKey builds the media object key for a variant title.
func variantObjectKey(productID uint, title string) string {
	return fmt.Sprintf("variants/%d/%s.png", productID, utils.Slugify(title))
}

// Resolve returns a title -> URL map for the change-set entries that
// requested an image. A single listing of the product's media prefix is
// used instead of one stat call per variant; titles whose object does not
// exist yet simply stay absent from the map.
func (r *ImageResolver) Resolve(ctx context.Context, productID uint, variants []reconcile.VariantChange) map[string]string {
	wanted := make(map[string]string) // object key -> title
	for _, v := range variants {
		if v.GenerateImage {
			wanted[variantObjectKey(productID, v.Title)] = v.Title
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	prefix := fmt.Sprintf("variants/%d/", productID)
	objects := r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	urls := make(map[string]string)
	for obj := range objects {
		if obj.Err != nil {
			// Media is best-effort: variants without a resolved image are
			// still created with an empty image list.
			r.logger.Warn("Failed to list media objects",
				zap.Uint("product_id", productID),
				zap.Error(obj.Err),
			)
			return urls
		}
		if title, ok := wanted[obj.Key]; ok {
			urls[title] = r.publicBaseURL + "/" + obj.Key
		}
	}

	return urls
}
