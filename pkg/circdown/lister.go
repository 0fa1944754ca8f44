package circdown

import (
	"context"
	"iter"

	"github.com/criteo/circdown/pkg/bucket"
)

// Lister walks the bucket key hierarchy. *bucket.Client implements it.
type Lister interface {
	// Walk returns every listing page below prefix, one directory level deep
	// when delimiter is "/".
	Walk(ctx context.Context, prefix, delimiter string) iter.Seq2[*bucket.ListBucketResult, error]
	// ResolveURL returns the absolute URL of an object key.
	ResolveURL(key string) string
}

var _ Lister = (*bucket.Client)(nil)
