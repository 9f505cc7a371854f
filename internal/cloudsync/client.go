// Package cloudsync wraps an S3-compatible object store (via minio-go) for
// the Monthly Sink and Bucket Query components: uploading merged monthly
// partitions and per-day provenance copies, and downloading monthly
// objects so Bucket Query can union them exactly like local files.
package cloudsync

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DevDefaultEndpoint/AccessKey/SecretKey/Bucket mirror the historical
// local development defaults. They are only used when a caller opts in
// via DevDefaults (or passes them explicitly) — production callers must
// always pass explicit credentials to New.
const (
	DevDefaultEndpoint  = "localhost:9000"
	DevDefaultAccessKey = "ahmed"
	DevDefaultSecretKey = "ahmed1234"
	DevDefaultBucket    = "timon"
)

// Client is a thin handle around a bucket on an S3-compatible store.
type Client struct {
	mc     *minio.Client
	Bucket string
}

// New connects to an S3-compatible endpoint and ensures the target
// bucket exists. Credentials must be supplied explicitly; there is no
// implicit fallback to the development defaults (see DevDefaults).
func New(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Client, error) {
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("cloudsync: access key and secret key are required")
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudsync: connect to %s: %w", endpoint, err)
	}

	exists, err := mc.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("cloudsync: check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("cloudsync: create bucket %s: %w", bucket, err)
		}
	}

	return &Client{mc: mc, Bucket: bucket}, nil
}

// DevDefaults connects using the historical local-development
// credentials. Intended for `timon --dev-defaults` local testing only;
// never use in production.
func DevDefaults(ctx context.Context) (*Client, error) {
	return New(ctx, DevDefaultEndpoint, DevDefaultAccessKey, DevDefaultSecretKey, DevDefaultBucket, false)
}
