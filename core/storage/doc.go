// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface used to
// read and write catalog documents. Both AWS S3 and self-hosted MinIO
// instances are supported.
//
// # Operations
//
//   - BucketExists, MakeBucket: EnsureBucket combines them before uploads.
//   - PutObject: Uploads content (with size and options).
//   - GetObject: Retrieves content as a stream.
//   - ListObjects: Lists objects; Latest picks the newest under a prefix.
//
// core/storage/mocks holds a testify mock of Client.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, config.Bucket, config.Region)
package storage
