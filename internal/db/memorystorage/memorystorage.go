package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/slidr/internal/db/jsondb"
)

// MemoryStorage is the JSON storage without a backing file; data lives for
// the lifetime of the process.
type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.NewCache(),
		},
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
