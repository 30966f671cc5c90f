package mutation

import (
	"context"
	"fmt"
	"slices"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/typed"
)

// collection keeps the in-memory copy of one kind next to its repository.
// Every change builds a new list, persists it, and only then swaps it in,
// so a failed write leaves memory untouched.
type collection[T content.Entity] struct {
	repo  *typed.Repository[T]
	items []T
}

func newCollection[T content.Entity](repo *typed.Repository[T]) *collection[T] {
	return &collection[T]{repo: repo, items: []T{}}
}

func (c *collection[T]) load(ctx context.Context) error {
	items, err := c.repo.Load(ctx)
	if err != nil {
		return err
	}
	c.items = items
	return nil
}

func (c *collection[T]) has(id int64) bool {
	return typed.IndexOf(c.items, id) >= 0
}

func (c *collection[T]) len() int { return len(c.items) }

func (c *collection[T]) find(id int64) (content.Record, error) {
	i := typed.IndexOf(c.items, id)
	if i < 0 {
		return nil, c.notFound(id)
	}
	return c.items[i], nil
}

func (c *collection[T]) add(ctx context.Context, values content.Values, ids IDSource) (content.Record, error) {
	rec, err := content.DecodeAs[T](values)
	if err != nil {
		return nil, err
	}
	rec = content.WithID(rec, ids.NextID(c.has))
	next := content.Insert(c.repo.Policy(), c.items, rec)
	if err := c.repo.Replace(ctx, next); err != nil {
		return nil, err
	}
	c.items = next
	return rec, nil
}

// edit merges values over the record with id. The id and the position in
// the list never change.
func (c *collection[T]) edit(ctx context.Context, id int64, values content.Values) (content.Record, error) {
	i := typed.IndexOf(c.items, id)
	if i < 0 {
		return nil, c.notFound(id)
	}
	merged := c.items[i].Values()
	for k, v := range values {
		merged[k] = v
	}
	rec, err := content.DecodeAs[T](merged)
	if err != nil {
		return nil, err
	}
	rec = content.WithID(rec, id)
	next := slices.Clone(c.items)
	next[i] = rec
	if err := c.repo.Replace(ctx, next); err != nil {
		return nil, err
	}
	c.items = next
	return rec, nil
}

func (c *collection[T]) remove(ctx context.Context, id int64) error {
	i := typed.IndexOf(c.items, id)
	if i < 0 {
		return c.notFound(id)
	}
	next := slices.Delete(slices.Clone(c.items), i, i+1)
	if err := c.repo.Replace(ctx, next); err != nil {
		return err
	}
	c.items = next
	return nil
}

func (c *collection[T]) notFound(id int64) error {
	return fmt.Errorf("%s %d: %w", c.repo.Kind(), id, core.ErrRecordNotFound)
}
