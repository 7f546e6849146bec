// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//
//	store := s3.NewStore(s3.NewFromConfig(cfg), "my-bucket", "sites/docs/")
//	report, err := docdex.PublishSite(ctx, snap, renderer, store)
//
// # Features
//
//   - Streaming multipart uploads for large pages and search indexes
//   - Range reads for partial fetches of published blobs
//   - Automatic pagination for listing
//   - Configurable prefix so several sites can share one bucket
//
// CommitStore layers DynamoDB conditional writes on top of Store so that
// concurrent publishers flip the CURRENT manifest pointer atomically.
package s3
