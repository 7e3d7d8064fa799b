// Package storage provides an abstraction layer for the media object store.
//
// It wraps the MinIO Go client to provide a narrow interface for the
// operations the catalog needs: verifying the media bucket, uploading
// variant images, and listing pre-generated media objects. The abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (see
// core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "catalog-media")
package storage
