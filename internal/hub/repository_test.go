package hub_test

import (
	"context"
	"errors"
	"testing"

	"hub-go/internal/blob"
	"hub-go/internal/hub"
	"hub-go/internal/testutil"
)

func newTestRepo(store hub.BlobStore) *hub.ItemRepository {
	return hub.NewItemRepository(store, hub.DefaultItemsKey, testutil.NewStubIDGenerator(), hub.NewNopLogger())
}

func TestItemRepository_ListEmptyStore(t *testing.T) {
	repo := newTestRepo(blob.NewMemoryStore())

	items := repo.List(context.Background())
	if items == nil {
		t.Fatal("List() = nil, want empty slice")
	}
	if len(items) != 0 {
		t.Errorf("List() = %d items, want 0", len(items))
	}
}

func TestItemRepository_ListFailOpen(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		store := &testutil.FlakyStore{
			Inner:  blob.NewMemoryStore(),
			GetErr: errors.New("backend down"),
		}
		repo := newTestRepo(store)

		if items := repo.List(context.Background()); len(items) != 0 {
			t.Errorf("List() = %d items, want 0", len(items))
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		store := blob.NewMemoryStore()
		if _, err := store.Put(context.Background(), hub.DefaultItemsKey, []byte("not json"), 0); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		repo := newTestRepo(store)

		if items := repo.List(context.Background()); len(items) != 0 {
			t.Errorf("List() = %d items, want 0", len(items))
		}
	})
}

func TestItemRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		in      hub.ItemInput
		wantErr bool
	}{
		{
			name: "full input",
			in:   hub.ItemInput{Title: "Wiki", Subtitle: "docs", Link: "https://wiki.local", Image: "https://img.local/w.png"},
		},
		{
			name: "optional fields default to empty",
			in:   hub.ItemInput{Title: "Wiki", Link: "https://wiki.local"},
		},
		{
			name:    "missing title",
			in:      hub.ItemInput{Link: "https://x"},
			wantErr: true,
		},
		{
			name:    "missing link",
			in:      hub.ItemInput{Title: "Wiki"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := blob.NewMemoryStore()
			repo := newTestRepo(store)

			item, err := repo.Create(context.Background(), tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				// Store must be untouched on validation failure.
				if _, _, err := store.Get(context.Background(), hub.DefaultItemsKey); !errors.Is(err, hub.ErrNotFound) {
					t.Errorf("store was written despite validation failure")
				}
				return
			}

			if item.ID == "" {
				t.Error("Create() returned empty id")
			}
			if item.Title != tt.in.Title || item.Link != tt.in.Link {
				t.Errorf("Create() = %+v, want fields from %+v", item, tt.in)
			}
			if item.Subtitle != tt.in.Subtitle || item.Image != tt.in.Image {
				t.Errorf("optional fields = (%q, %q), want (%q, %q)", item.Subtitle, item.Image, tt.in.Subtitle, tt.in.Image)
			}
		})
	}
}

func TestItemRepository_CreateRoundTrip(t *testing.T) {
	repo := newTestRepo(blob.NewMemoryStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, hub.ItemInput{Title: "Wiki", Link: "https://wiki.local"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	items := repo.List(ctx)
	if len(items) != 1 {
		t.Fatalf("List() = %d items, want 1", len(items))
	}
	if items[0] != created {
		t.Errorf("List()[0] = %+v, want %+v", items[0], created)
	}
	if items[0].Subtitle != "" || items[0].Image != "" {
		t.Errorf("optional fields = (%q, %q), want empty", items[0].Subtitle, items[0].Image)
	}
}

func TestItemRepository_CreateUniqueIDs(t *testing.T) {
	repo := newTestRepo(blob.NewMemoryStore())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		item, err := repo.Create(ctx, hub.ItemInput{Title: "T", Link: "https://x"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate id %q", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestItemRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the item", func(t *testing.T) {
		repo := newTestRepo(blob.NewMemoryStore())
		keep, err := repo.Create(ctx, hub.ItemInput{Title: "Keep", Link: "https://keep"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		drop, err := repo.Create(ctx, hub.ItemInput{Title: "Drop", Link: "https://drop"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if err := repo.Delete(ctx, drop.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		items := repo.List(ctx)
		if len(items) != 1 || items[0].ID != keep.ID {
			t.Errorf("List() after delete = %+v, want only %q", items, keep.ID)
		}
		for _, it := range items {
			if it.ID == drop.ID {
				t.Errorf("deleted id %q still present", drop.ID)
			}
		}
	})

	t.Run("nonexistent id is a no-op success", func(t *testing.T) {
		repo := newTestRepo(blob.NewMemoryStore())
		item, err := repo.Create(ctx, hub.ItemInput{Title: "Keep", Link: "https://keep"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if err := repo.Delete(ctx, "no-such-id"); err != nil {
			t.Fatalf("Delete() error = %v, want nil", err)
		}

		items := repo.List(ctx)
		if len(items) != 1 || items[0] != item {
			t.Errorf("collection changed by no-op delete: %+v", items)
		}
	})

	t.Run("empty id is a validation error", func(t *testing.T) {
		repo := newTestRepo(blob.NewMemoryStore())

		err := repo.Delete(ctx, "")
		var verr *hub.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Delete(\"\") error = %v, want *ValidationError", err)
		}
		if verr.Message != "ID required" {
			t.Errorf("message = %q, want %q", verr.Message, "ID required")
		}
	})

	t.Run("on empty store still succeeds", func(t *testing.T) {
		repo := newTestRepo(blob.NewMemoryStore())
		if err := repo.Delete(ctx, "anything"); err != nil {
			t.Fatalf("Delete() on empty store error = %v", err)
		}
	})
}

func TestItemRepository_RetriesRevisionConflict(t *testing.T) {
	ctx := context.Background()
	store := &testutil.FlakyStore{
		Inner:    blob.NewMemoryStore(),
		PutErr:   hub.ErrRevisionMismatch,
		FailPuts: 2,
	}
	repo := newTestRepo(store)

	item, err := repo.Create(ctx, hub.ItemInput{Title: "Wiki", Link: "https://wiki.local"})
	if err != nil {
		t.Fatalf("Create() error = %v, want retry to succeed", err)
	}

	items := repo.List(ctx)
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("List() = %+v, want the created item", items)
	}
}

func TestItemRepository_WriteFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	store := &testutil.FlakyStore{
		Inner:  blob.NewMemoryStore(),
		PutErr: errors.New("backend down"),
	}
	repo := newTestRepo(store)

	if _, err := repo.Create(ctx, hub.ItemInput{Title: "Wiki", Link: "https://wiki.local"}); err == nil {
		t.Fatal("Create() error = nil, want write failure")
	}
	if err := repo.Delete(ctx, "some-id"); err == nil {
		t.Fatal("Delete() error = nil, want write failure")
	}
}

func TestItemRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := hub.NewItemRepository(blob.NewMemoryStore(), hub.DefaultItemsKey, hub.UUIDGenerator{}, hub.NewNopLogger())

	const n = 20
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := repo.Create(ctx, hub.ItemInput{Title: "T", Link: "https://x"})
			done <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Create() error = %v", err)
		}
	}

	if items := repo.List(ctx); len(items) != n {
		t.Errorf("List() = %d items, want %d (lost update)", len(items), n)
	}
}
