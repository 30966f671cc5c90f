package mutation

import (
	"sync"
	"time"
)

// IDSource mints record identities. taken reports ids already present in
// the target collection.
type IDSource interface {
	NextID(taken func(int64) bool) int64
}

// ClockIDs mints ids from the wall clock in milliseconds. Ids are strictly
// increasing within the process: when the clock has not advanced, the
// previous id plus one is used.
type ClockIDs struct {
	// Now defaults to time.Now.
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

// NextID implements IDSource.
func (c *ClockIDs) NextID(taken func(int64) bool) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	id := now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	for taken != nil && taken(id) {
		id++
	}
	c.last = id
	return id
}
