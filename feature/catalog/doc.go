// Package catalog implements the product catalog feature: merging desired
// variant change-sets into a product's persisted options, option values,
// and variants, and serving the resulting configuration.
//
// The data-consistency core lives in the nested reconcile package; this
// package wires it to the surrounding service:
//
//   - Service: verifies the product, resolves pre-generated variant images
//     from the media bucket, runs the engine, and serves the cached
//     configuration view.
//   - ImageResolver: maps variant titles to media URLs written out of band
//     by the external image generator.
//   - Integrity: audits persisted rows against the engine's invariants and
//     surfaces partial-commit orphans.
//   - Handler: exposes the HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /products/:id/variants : apply a change-set.
//   - GET  /products/:id/configuration : configuration view.
//   - GET  /products/:id/integrity : invariant audit.
//   - PUT  /products/:id/variants/:variantId/image : attach an image.
package catalog
