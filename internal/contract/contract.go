// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/wctc-net-database/gradedash/schema"
)

// ErrUnknownStudent is returned when a lookup names a student that no document mentions.
var ErrUnknownStudent = errors.New("unknown student")

// DatasetLoader produces a reconciled-ready snapshot of all documents.
type DatasetLoader interface {
	// Load fetches and decodes every document. It returns snapshot.ErrNoData when
	// neither the current document nor the legacy per-assignment documents are usable.
	Load(ctx context.Context) (*schema.Dataset, error)
}

// DocumentSource fetches one named snapshot document (e.g. "current.json").
// This allows loading from a directory, a web host or the local cache interchangeably.
type DocumentSource interface {
	// Fetch returns the raw bytes of the named document.
	Fetch(ctx context.Context, name string) ([]byte, error)

	// Describe returns a human-readable location for logs and errors.
	Describe() string
}

// StoreManager defines the interface for managing persistent stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetDocumentStore() CacheStore
	GetCreditStore() CreditStore
}

// CacheStore defines the interface for versioned blob storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// CreditReader reads stretch-goal credit flags. Computation code only ever reads.
type CreditReader interface {
	// Get reports whether the goal was credited for the student (name is case-insensitive).
	Get(ctx context.Context, student, goalID string) (bool, error)
}

// CreditStore is the persisted key to boolean map of stretch-goal credits.
type CreditStore interface {
	CreditReader

	// Set stores the flag. Setting false removes the key.
	Set(ctx context.Context, student, goalID string, credited bool) error

	// List returns every credited flag, ordered by student then goal.
	List(ctx context.Context) ([]schema.CreditFlag, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.CreditStatus, error)

	// Close closes the underlying connection.
	Close() error
}
