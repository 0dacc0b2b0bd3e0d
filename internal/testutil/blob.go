package testutil

import (
	"context"

	"hub-go/internal/hub"
)

// FlakyStore wraps a BlobStore and injects errors for failure-path tests.
// Set GetErr or PutErr to force the next calls to fail; FailPuts limits how
// many Puts fail before the store recovers (0 means every Put fails while
// PutErr is set).
type FlakyStore struct {
	Inner    hub.BlobStore
	GetErr   error
	PutErr   error
	FailPuts int

	putFailures int
}

func (f *FlakyStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	if f.GetErr != nil {
		return nil, 0, f.GetErr
	}
	return f.Inner.Get(ctx, key)
}

func (f *FlakyStore) Put(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	if f.PutErr != nil {
		if f.FailPuts == 0 || f.putFailures < f.FailPuts {
			f.putFailures++
			return 0, f.PutErr
		}
	}
	return f.Inner.Put(ctx, key, data, expectedRevision)
}

func (f *FlakyStore) Ping(ctx context.Context) error { return f.Inner.Ping(ctx) }

func (f *FlakyStore) Close() error { return f.Inner.Close() }

var _ hub.BlobStore = (*FlakyStore)(nil)
