package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultItemsKey is the well-known blob key holding the item collection.
const DefaultItemsKey = "items.json"

// putRetries bounds how many times a read-modify-write is retried after
// losing a revision race to a concurrent writer.
const putRetries = 3

// ItemRepository manages the dashboard item collection, stored as one JSON
// document under a single key. Every mutation loads the full collection,
// changes it in memory, and writes it back whole.
//
// Concurrent writers are handled two ways: a mutex serializes mutations
// within this process, and the blob store's revision check catches writes
// from other processes, in which case the read-modify-write is retried.
type ItemRepository struct {
	store  BlobStore
	key    string
	idgen  IDGenerator
	logger Logger

	mu sync.Mutex // serializes in-process mutations
}

// NewItemRepository creates an ItemRepository over the given blob store.
// key selects the stored document; pass DefaultItemsKey unless the config
// says otherwise.
func NewItemRepository(store BlobStore, key string, idgen IDGenerator, logger Logger) *ItemRepository {
	return &ItemRepository{
		store:  store,
		key:    key,
		idgen:  idgen,
		logger: logger,
	}
}

// List returns all items. Any failure (missing document, backend error,
// malformed JSON) yields an empty list rather than an error, so the
// dashboard never hard-fails on a cold start.
func (r *ItemRepository) List(ctx context.Context) []Item {
	items, _, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("reading items failed, treating as empty", "key", r.key, "error", err)
		return []Item{}
	}
	return items
}

// Create validates the input, appends a new item to the collection, and
// writes the whole collection back. Returns the created item.
func (r *ItemRepository) Create(ctx context.Context, in ItemInput) (Item, error) {
	if err := in.Validate(); err != nil {
		return Item{}, err
	}

	item := Item{
		ID:       r.idgen.New(),
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Link:     in.Link,
		Image:    in.Image,
	}

	err := r.mutate(ctx, func(items []Item) []Item {
		return append(items, item)
	})
	if err != nil {
		return Item{}, err
	}

	r.logger.Info("item created", "id", item.ID, "title", item.Title)
	return item, nil
}

// Delete removes every item with the given id and writes the collection
// back. Deleting an id that does not exist is a no-op success.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Message: "ID required"}
	}

	err := r.mutate(ctx, func(items []Item) []Item {
		filtered := make([]Item, 0, len(items))
		for _, it := range items {
			if it.ID != id {
				filtered = append(filtered, it)
			}
		}
		return filtered
	})
	if err != nil {
		return err
	}

	r.logger.Info("item deleted", "id", id)
	return nil
}

// mutate runs a read-modify-write cycle under the repository mutex,
// retrying when a concurrent writer bumps the revision underneath us.
func (r *ItemRepository) mutate(ctx context.Context, fn func([]Item) []Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= putRetries; attempt++ {
		items, revision, err := r.load(ctx)
		if err != nil {
			// Missing or unreadable document starts from empty, same
			// fail-open policy as List. load only reports the error for
			// logging; revision is still usable.
			r.logger.Warn("reading items before write failed, starting from empty", "key", r.key, "error", err)
		}

		data, err := json.Marshal(fn(items))
		if err != nil {
			return fmt.Errorf("encoding items: %w", err)
		}

		if _, err := r.store.Put(ctx, r.key, data, revision); err != nil {
			if errors.Is(err, ErrRevisionMismatch) {
				lastErr = err
				r.logger.Warn("concurrent write detected, retrying", "key", r.key, "attempt", attempt+1)
				continue
			}
			return fmt.Errorf("writing items: %w", err)
		}
		return nil
	}
	return fmt.Errorf("writing items after %d attempts: %w", putRetries+1, lastErr)
}

// load fetches and decodes the collection. On any failure it returns an
// empty slice along with the error; the revision is valid in either case
// (0 when the document is missing) so callers can still write.
func (r *ItemRepository) load(ctx context.Context) ([]Item, int64, error) {
	data, revision, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Item{}, 0, nil
		}
		return []Item{}, 0, fmt.Errorf("fetching items: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return []Item{}, revision, fmt.Errorf("decoding items: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, revision, nil
}
