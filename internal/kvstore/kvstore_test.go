package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryLoadMissingKey(t *testing.T) {
	m := NewMemory()
	var dest sample
	if m.Load(context.Background(), "absent", &dest) {
		t.Fatalf("expected false for absent key")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Save(ctx, "k", sample{Name: "agency", Count: 3})

	var dest sample
	if !m.Load(ctx, "k", &dest) {
		t.Fatalf("expected load to succeed")
	}
	if dest.Name != "agency" || dest.Count != 3 {
		t.Fatalf("unexpected value: %+v", dest)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Save(ctx, "k", sample{Name: "x"})
	m.Delete(ctx, "k")

	var dest sample
	if m.Load(ctx, "k", &dest) {
		t.Fatalf("expected false after delete")
	}
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	f.Save(ctx, "agency.cart", sample{Name: "cart", Count: 2})

	var dest sample
	if !f.Load(ctx, "agency.cart", &dest) {
		t.Fatalf("expected load to succeed")
	}
	if dest.Name != "cart" || dest.Count != 2 {
		t.Fatalf("unexpected value: %+v", dest)
	}
}

func TestFileCorruptBlobReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	var dest sample
	if f.Load(context.Background(), "broken", &dest) {
		t.Fatalf("expected false for corrupt blob")
	}
}

func TestFileSanitizesKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	f.Save(ctx, "../escape/attempt", sample{Name: "safe"})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file inside the data dir, got %d", len(entries))
	}

	var dest sample
	if !f.Load(ctx, "../escape/attempt", &dest) || dest.Name != "safe" {
		t.Fatalf("expected sanitized key to round-trip, got %+v", dest)
	}
}

func TestFileDeleteMissingKeyIsNoop(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	f.Delete(context.Background(), "absent")
}
