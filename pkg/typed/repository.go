// Package typed provides the entity repositories: one type-safe view per
// collection over the persistence store.
package typed

import (
	"context"
	"fmt"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/store"
)

// Repository loads and replaces one whole collection.
// There is no partial update: callers compute the new list and hand it back.
type Repository[T content.Entity] struct {
	store *store.Store
	spec  content.Spec[T]
}

// NewRepository creates a repository for the collection described by spec.
func NewRepository[T content.Entity](s *store.Store, spec content.Spec[T]) *Repository[T] {
	return &Repository[T]{store: s, spec: spec}
}

// Kind returns the entity kind held by the repository.
func (r *Repository[T]) Kind() content.Kind { return r.spec.Kind }

// Key returns the storage key of the collection.
func (r *Repository[T]) Key() string { return r.spec.Key }

// Policy returns where new records go.
func (r *Repository[T]) Policy() content.Ordering { return r.spec.Order }

// Load returns the stored collection, seeding it on first access.
func (r *Repository[T]) Load(ctx context.Context) ([]T, error) {
	list, err := store.Get(ctx, r.store, r.spec.Key, r.spec.Seed())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.spec.Kind, err)
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// Replace overwrites the stored collection with list.
func (r *Repository[T]) Replace(ctx context.Context, list []T) error {
	if list == nil {
		list = []T{}
	}
	if err := store.Set(ctx, r.store, r.spec.Key, list); err != nil {
		return fmt.Errorf("replace %s: %w", r.spec.Kind, err)
	}
	return nil
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf[T content.Entity](list []T, id int64) int {
	for i, rec := range list {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}
