package blob

import (
	"context"
	"errors"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	key := "reports/profile/2026-03-01_2026-03-07_abc.csv"
	n, err := store.PutObject(ctx, key, []byte("date,brightness\n"), "text/csv")
	if err != nil {
		t.Fatalf("PutObject: %v", err)
	}
	if n != 16 {
		t.Errorf("expected 16 bytes, got %d", n)
	}

	data, err := store.GetObject(ctx, key)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if string(data) != "date,brightness\n" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := store.PresignGet(ctx, key, 60); !errors.Is(err, ErrPresignUnsupported) {
		t.Errorf("expected ErrPresignUnsupported, got %v", err)
	}

	if err := store.DeleteObject(ctx, key); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if _, err := store.GetObject(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteObject(ctx, key); err != nil {
		t.Errorf("deleting a missing object should succeed, got %v", err)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	for _, key := range []string{"", "/etc/passwd", "../outside", "reports/../../x", "reports//x"} {
		if _, err := store.PutObject(context.Background(), key, []byte("x"), "text/plain"); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}
