package kvstore

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// File persists each key as its own JSON file under a data directory.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	// Keys are dot-separated store names; keep filenames flat and safe.
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, name+".json")
}

func (f *File) Load(_ context.Context, key string, dest any) bool {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (f *File) Save(_ context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[kvstore] WARN: failed to serialize key %s: %v", key, err)
		return
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		log.Printf("[kvstore] WARN: failed to write key %s: %v", key, err)
		return
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		log.Printf("[kvstore] WARN: failed to persist key %s: %v", key, err)
	}
}

func (f *File) Delete(_ context.Context, key string) {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		log.Printf("[kvstore] WARN: failed to delete key %s: %v", key, err)
	}
}
