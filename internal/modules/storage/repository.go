package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Load when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Entry is a single key/value pair written by Save.
type Entry struct {
	Key   string
	Value []byte
}

// Repository is the persisted key/value state of the register.
// Save must apply every entry or none of them.
type Repository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, entries ...Entry) error
	Close() error
}

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Path        string // file path or sqlite DSN
	DatabaseURL string // postgres DSN
}

// Open returns the backend named by opts.Driver.
func Open(opts Options) (Repository, error) {
	switch strings.ToLower(opts.Driver) {
	case DriverMemory:
		return NewMemoryRepository(), nil
	case DriverFile, "":
		return NewFileRepository(opts.Path)
	case DriverSQLite:
		return NewSQLiteRepository(opts.Path)
	case DriverPostgres:
		return NewPostgresRepository(opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}

// ReadError reports a persisted value that could not be read or decoded.
// Callers recover from it by substituting an empty collection.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("storage: read %s: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed Save. It is returned to the caller unchanged.
type WriteError struct {
	Keys []string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage: write %s: %v", strings.Join(e.Keys, ", "), e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Keys lists the keys of entries, in order.
func Keys(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
