package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileRepo keeps every key in one JSON document of string values, the same
// shape a browser's localStorage has. Save rewrites the document through a
// temp file and rename so a crash never leaves half the keys updated.
type fileRepo struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository stores state in the JSON document at path.
func NewFileRepository(path string) (Repository, error) {
	if path == "" {
		return nil, errors.New("storage: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create state dir: %w", err)
	}
	return &fileRepo{path: path}, nil
}

func (r *fileRepo) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (r *fileRepo) Save(ctx context.Context, entries ...Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		// an unreadable document is replaced, like overwriting a corrupt localStorage item
		doc = make(map[string]string)
	}
	for _, e := range entries {
		doc[e.Key] = string(e.Value)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return r.write(data)
}

func (r *fileRepo) Close() error { return nil }

func (r *fileRepo) read() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	doc := make(map[string]string)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return doc, nil
}

func (r *fileRepo) write(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".pos-state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
