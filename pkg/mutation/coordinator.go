// Package mutation implements the mutation coordinator: it turns user
// intents (add, edit, delete, inline update, reset) into whole-collection
// replacements while keeping the in-memory view and the persisted
// snapshots consistent.
package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/store"
	"github.com/NTPCPHARMACY/HRPC/pkg/typed"
)

// inlineFields lists the fields editable in place. Documents and meeting
// records are only edited through the form.
var inlineFields = map[content.Kind][]string{
	content.KindNews:  {"title", "description"},
	content.KindStaff: {"role", "name", "description"},
}

// InlineFields returns the fields of kind that support InlineUpdate.
func InlineFields(kind content.Kind) []string {
	return slices.Clone(inlineFields[kind])
}

type kindOps interface {
	load(ctx context.Context) error
	has(id int64) bool
	len() int
	find(id int64) (content.Record, error)
	add(ctx context.Context, values content.Values, ids IDSource) (content.Record, error)
	edit(ctx context.Context, id int64, values content.Values) (content.Record, error)
	remove(ctx context.Context, id int64) error
}

// Coordinator serializes every mutation of the four collections.
type Coordinator struct {
	store     *store.Store
	logger    *slog.Logger
	confirmer Confirmer
	ids       IDSource

	mu       sync.Mutex
	mode     core.Mode
	loaded   bool
	news     *collection[content.Announcement]
	staff    *collection[content.StaffMember]
	files    *collection[content.Document]
	meetings *collection[content.MeetingRecord]

	subMu  sync.Mutex
	subs   map[int]chan core.Event
	nextID int
	closed bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConfirmer sets the confirmation prompt used by Delete.
// Without one, deletions are declined.
func WithConfirmer(confirmer Confirmer) Option {
	return func(c *Coordinator) {
		if confirmer != nil {
			c.confirmer = confirmer
		}
	}
}

// WithIDSource replaces the clock based id source.
func WithIDSource(ids IDSource) Option {
	return func(c *Coordinator) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithMode sets the initial editing mode. Defaults to Guest.
func WithMode(mode core.Mode) Option {
	return func(c *Coordinator) {
		c.mode = mode
	}
}

// New creates a coordinator over s. Call Load before use.
func New(s *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     s,
		logger:    slog.Default(),
		confirmer: Answer(false),
		ids:       &ClockIDs{},
		news:      newCollection(typed.NewRepository(s, content.NewsSpec)),
		staff:     newCollection(typed.NewRepository(s, content.StaffSpec)),
		files:     newCollection(typed.NewRepository(s, content.FileSpec)),
		meetings:  newCollection(typed.NewRepository(s, content.MeetingSpec)),
		subs:      make(map[int]chan core.Event),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) ops(kind content.Kind) (kindOps, error) {
	switch kind {
	case content.KindNews:
		return c.news, nil
	case content.KindStaff:
		return c.staff, nil
	case content.KindFile:
		return c.files, nil
	case content.KindMeeting:
		return c.meetings, nil
	}
	return nil, fmt.Errorf("%q: %w", kind, core.ErrUnknownKind)
}

// Mode returns the process-wide editing mode.
func (c *Coordinator) Mode() core.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode changes the process-wide editing mode.
func (c *Coordinator) SetMode(mode core.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != mode {
		c.logger.Info("mode changed", "mode", mode)
	}
	c.mode = mode
}

func (c *Coordinator) guard(ctx context.Context) error {
	mode := c.mode
	if m, ok := ModeFrom(ctx); ok {
		mode = m
	}
	if !mode.CanEdit() {
		return core.ErrForbidden
	}
	return nil
}

// prepare checks the mode and loads the collections on first use, so a
// mutation never rewrites a stored collection it has not read.
func (c *Coordinator) prepare(ctx context.Context) error {
	if err := c.guard(ctx); err != nil {
		return err
	}
	if c.loaded {
		return nil
	}
	return c.loadLocked(ctx)
}

// Load reads every collection, seeding the ones never stored before.
func (c *Coordinator) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

func (c *Coordinator) loadLocked(ctx context.Context) error {
	for _, kind := range content.Kinds() {
		ops, _ := c.ops(kind)
		if err := ops.load(ctx); err != nil {
			return err
		}
	}
	c.loaded = true
	return nil
}

// View returns a deep copy of the in-memory collections.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		News:     slices.Clone(c.news.items),
		Staff:    slices.Clone(c.staff.items),
		Files:    slices.Clone(c.files.items),
		Meetings: slices.Clone(c.meetings.items),
	}
}

// Records returns the in-memory collection of kind.
func (c *Coordinator) Records(kind content.Kind) ([]content.Record, error) {
	if _, err := c.ops(kind); err != nil {
		return nil, err
	}
	return c.View().Records(kind), nil
}

// Find returns the record of kind with id.
func (c *Coordinator) Find(kind content.Kind, id int64) (content.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ops, err := c.ops(kind)
	if err != nil {
		return nil, err
	}
	return ops.find(id)
}

// Add creates a record from values with a fresh id, placed at the head or
// tail of its collection according to the kind's ordering.
func (c *Coordinator) Add(ctx context.Context, kind content.Kind, values content.Values) (content.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.prepare(ctx); err != nil {
		return nil, err
	}
	ops, err := c.ops(kind)
	if err != nil {
		return nil, err
	}
	rec, err := ops.add(ctx, values, c.ids)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}
	c.logger.Info("record added", "op", "add", "kind", kind, "id", rec.RecordID())
	c.publish(core.EventCreate, kind, rec.RecordID())
	return rec, nil
}

// Edit replaces the fields of the record with id. Values are merged over
// the existing record; id and position are preserved.
func (c *Coordinator) Edit(ctx context.Context, kind content.Kind, id int64, values content.Values) (content.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.prepare(ctx); err != nil {
		return nil, err
	}
	ops, err := c.ops(kind)
	if err != nil {
		return nil, err
	}
	rec, err := ops.edit(ctx, id, values)
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", kind, err)
	}
	c.logger.Info("record edited", "op", "edit", "kind", kind, "id", id)
	c.publish(core.EventModify, kind, id)
	return rec, nil
}

// InlineUpdate changes a single field, as committed by an inline editor.
// Only news titles and descriptions and staff text fields are supported.
func (c *Coordinator) InlineUpdate(ctx context.Context, kind content.Kind, id int64, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.prepare(ctx); err != nil {
		return err
	}
	ops, err := c.ops(kind)
	if err != nil {
		return err
	}
	if !slices.Contains(inlineFields[kind], field) {
		return fmt.Errorf("inline update %s.%s: %w", kind, field, core.ErrUnsupported)
	}
	if _, err := ops.edit(ctx, id, content.Values{field: value}); err != nil {
		return fmt.Errorf("inline update %s: %w", kind, err)
	}
	c.logger.Info("record edited", "op", "inline", "kind", kind, "id", id, "field", field)
	c.publish(core.EventModify, kind, id)
	return nil
}

// Delete removes the record with id after the configured Confirmer agrees.
// A declined confirmation returns false and changes nothing.
func (c *Coordinator) Delete(ctx context.Context, kind content.Kind, id int64) (bool, error) {
	return c.DeleteWith(ctx, kind, id, c.confirmer)
}

// DeleteWith is Delete with an explicit Confirmer.
func (c *Coordinator) DeleteWith(ctx context.Context, kind content.Kind, id int64, confirmer Confirmer) (bool, error) {
	c.mu.Lock()
	if err := c.prepare(ctx); err != nil {
		c.mu.Unlock()
		return false, err
	}
	ops, err := c.ops(kind)
	if err != nil {
		c.mu.Unlock()
		return false, err
	}
	if !ops.has(id) {
		c.mu.Unlock()
		return false, fmt.Errorf("delete %s %d: %w", kind, id, core.ErrRecordNotFound)
	}
	// The prompt may block on the user; do not hold the lock meanwhile.
	c.mu.Unlock()

	ok, err := confirmer.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		c.logger.Debug("delete declined", "kind", kind, "id", id)
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(ctx); err != nil {
		return false, err
	}
	if err := ops.remove(ctx, id); err != nil {
		return false, fmt.Errorf("delete %s: %w", kind, err)
	}
	c.logger.Info("record deleted", "op", "delete", "kind", kind, "id", id)
	c.publish(core.EventDelete, kind, id)
	return true, nil
}

// Reset erases the store and reloads every collection from its seed.
func (c *Coordinator) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guard(ctx); err != nil {
		return err
	}
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := c.loadLocked(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	c.logger.Info("content reset to defaults", "op", "reset")
	c.publish(core.EventReset, "", 0)
	return nil
}

// Subscribe returns a channel receiving an event after every successful
// mutation, and a function to stop receiving. Events are dropped for
// subscribers that fall behind.
func (c *Coordinator) Subscribe() (<-chan core.Event, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ch := make(chan core.Event, 16)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

func (c *Coordinator) publish(typ core.EventType, kind content.Kind, id int64) {
	evt := core.Event{Type: typ, Kind: string(kind), ID: id, Timestamp: time.Now().Unix()}
	if kind != "" {
		evt.Key = kind.Key()
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- evt:
		default:
			c.logger.Debug("subscriber lagging, event dropped", "event", evt.String())
		}
	}
}

// Close ends every subscription.
func (c *Coordinator) Close() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}
