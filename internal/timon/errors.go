package timon

import "errors"

var (
	errNotInitialized       = errors.New("timon: Init must be called before using the catalog")
	errBucketNotInitialized = errors.New("timon: InitBucket must be called before using the bucket")
)
