package mutation_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/fs"
	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
	"github.com/NTPCPHARMACY/HRPC/pkg/store"
)

// TestConcurrentMutations hammers one coordinator from many goroutines.
// Every add must land with a distinct id and the snapshot on disk must
// match memory afterwards.
func TestConcurrentMutations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	ctx := context.Background()
	backend := fs.NewBackend(fs.Config{Path: t.TempDir(), Ext: ".json"})
	require.NoError(t, backend.Initialize(ctx))
	s := store.New(backend)

	c := mutation.New(s, mutation.WithMode(core.Maintainer), mutation.WithConfirmer(mutation.Answer(true)))
	require.NoError(t, c.Load(ctx))
	defer c.Close()

	const workers, perWorker = 8, 10
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				rec, err := c.Add(ctx, content.KindMeeting, content.Values{
					"name": fmt.Sprintf("會議 %d-%d", w, i),
					"date": "2025-06-10",
				})
				if err != nil {
					errs <- err
					continue
				}
				// Interleave edits of the record just added.
				if _, err := c.Edit(ctx, content.KindMeeting, rec.RecordID(), content.Values{"date": "2025-07-01"}); err != nil {
					errs <- err
				}
				_ = c.View()
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("mutation failed: %v", err)
	}

	meetings := c.View().Meetings
	require.Len(t, meetings, 2+workers*perWorker)
	seen := make(map[int64]bool, len(meetings))
	for _, m := range meetings {
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}

	// A fresh coordinator reads back exactly what memory holds.
	fresh := mutation.New(store.New(backend))
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, meetings, fresh.View().Meetings)
}
