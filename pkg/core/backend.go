package core

import "context"

// Backend defines the raw key/value contract for durable local storage.
// Values are opaque encoded snapshots; a write always replaces the whole value.
// Adhering to this interface keeps the content layer independent of the
// underlying mechanism (filesystem, SQLite, Postgres, MongoDB, S3).
type Backend interface {
	// Read returns the stored bytes for key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write overwrites the value stored under key.
	Write(ctx context.Context, key string, data []byte) error

	// Keys returns the stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Clear erases every key owned by the backend.
	Clear(ctx context.Context) error

	// Initialize ensures the underlying storage is ready (directories, tables, connectivity).
	Initialize(ctx context.Context) error
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close(ctx context.Context) error
}

// Watchable is implemented by backends that can report changes made by
// other processes.
type Watchable interface {
	// Watch emits events for keys matching the glob pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
