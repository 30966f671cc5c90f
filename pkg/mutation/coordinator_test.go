package mutation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/pkg/adapters/memory"
	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
	"github.com/NTPCPHARMACY/HRPC/pkg/store"
)

// seqIDs hands out 100, 101, ...
type seqIDs struct{ next int64 }

func (s *seqIDs) NextID(taken func(int64) bool) int64 {
	if s.next == 0 {
		s.next = 100
	}
	for taken(s.next) {
		s.next++
	}
	id := s.next
	s.next++
	return id
}

func setup(t *testing.T, opts ...mutation.Option) (*mutation.Coordinator, *memory.Backend, *store.Store) {
	t.Helper()
	backend := memory.New()
	s := store.New(backend)
	opts = append([]mutation.Option{mutation.WithMode(core.Maintainer), mutation.WithIDSource(&seqIDs{})}, opts...)
	c := mutation.New(s, opts...)
	require.NoError(t, c.Load(context.Background()))
	t.Cleanup(c.Close)
	return c, backend, s
}

func ids[T content.Entity](list []T) []int64 {
	out := make([]int64, len(list))
	for i, rec := range list {
		out[i] = rec.RecordID()
	}
	return out
}

func TestLoad_SeedsEveryCollection(t *testing.T) {
	c, backend, _ := setup(t)
	v := c.View()

	require.Len(t, v.News, 2)
	assert.Equal(t, "2025-11-27", v.News[0].Date)
	assert.Equal(t, "2025-11-20", v.News[1].Date)
	assert.Len(t, v.Staff, 2)
	assert.Len(t, v.Files, 3)
	assert.Len(t, v.Meetings, 2)

	keys, err := backend.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hrpc_files", "hrpc_meetings", "hrpc_news", "hrpc_staff"}, keys)
}

func TestAdd_OrderingPolicy(t *testing.T) {
	ctx := context.Background()
	c, _, _ := setup(t)

	rec, err := c.Add(ctx, content.KindMeeting, content.Values{"name": "Q1 Review", "date": "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.RecordID())

	meetings := c.View().Meetings
	require.Len(t, meetings, 3)
	assert.Equal(t, "Q1 Review", meetings[0].Name)
	assert.Equal(t, []int64{100, 1, 2}, ids(meetings))

	_, err = c.Add(ctx, content.KindStaff, content.Values{"role": "研究助理", "name": "張小姐", "description": "文書", "icon": "user-nurse"})
	require.NoError(t, err)
	staff := c.View().Staff
	assert.Equal(t, []int64{1, 2, 101}, ids(staff))

	_, err = c.Add(ctx, content.KindNews, content.Values{"date": "2025-12-01", "title": "t", "description": "d"})
	require.NoError(t, err)
	assert.Equal(t, int64(102), c.View().News[0].ID)

	_, err = c.Add(ctx, content.KindFile, content.Values{"name": "04.pdf", "date": "2025/12/01", "type": "pdf"})
	require.NoError(t, err)
	files := c.View().Files
	assert.Equal(t, int64(103), files[len(files)-1].ID)
}

func TestAdd_Persists(t *testing.T) {
	ctx := context.Background()
	c, _, s := setup(t)
	_, err := c.Add(ctx, content.KindMeeting, content.Values{"name": "Q1 Review", "date": "2025-03-01"})
	require.NoError(t, err)

	reloaded := mutation.New(s)
	require.NoError(t, reloaded.Load(ctx))
	assert.Empty(t, cmp.Diff(c.View(), reloaded.View()))
}

func TestEdit_IdentityStability(t *testing.T) {
	ctx := context.Background()
	c, _, _ := setup(t)

	rec, err := c.Edit(ctx, content.KindFile, 2, content.Values{"name": "02. 利益衝突申報表(新版).docx"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.RecordID())

	files := c.View().Files
	assert.Equal(t, []int64{1, 2, 3}, ids(files))
	assert.Equal(t, content.Document{ID: 2, Name: "02. 利益衝突申報表(新版).docx", Date: "2025/09/01", Type: content.DocWord}, files[1])

	_, err = c.Edit(ctx, content.KindFile, 42, content.Values{"name": "x"})
	assert.ErrorIs(t, err, core.ErrRecordNotFound)

	_, err = c.Edit(ctx, content.KindFile, 1, content.Values{"type": "xls"})
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, content.DocPDF, c.View().Files[0].Type)
}

func TestDelete_Confirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("Declined", func(t *testing.T) {
		var asked string
		c, backend, _ := setup(t, mutation.WithConfirmer(mutation.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
			asked = prompt
			return false, nil
		})))
		writes := backend.Writes()

		ok, err := c.Delete(ctx, content.KindStaff, 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, mutation.DeletePrompt, asked)
		assert.Len(t, c.View().Staff, 2)
		assert.Equal(t, writes, backend.Writes())
	})

	t.Run("Confirmed", func(t *testing.T) {
		c, _, _ := setup(t, mutation.WithConfirmer(mutation.Answer(true)))
		ok, err := c.Delete(ctx, content.KindStaff, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []int64{1}, ids(c.View().Staff))
	})

	t.Run("DefaultDeclines", func(t *testing.T) {
		c, _, _ := setup(t)
		ok, err := c.Delete(ctx, content.KindStaff, 2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Missing", func(t *testing.T) {
		c, _, _ := setup(t)
		_, err := c.DeleteWith(ctx, content.KindStaff, 9, mutation.Answer(true))
		assert.ErrorIs(t, err, core.ErrRecordNotFound)
	})

	t.Run("ConfirmerError", func(t *testing.T) {
		c, _, _ := setup(t)
		_, err := c.DeleteWith(ctx, content.KindStaff, 2, mutation.ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, errors.New("tty closed")
		}))
		assert.Error(t, err)
		assert.Len(t, c.View().Staff, 2)
	})
}

func TestDelete_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	clock := time.UnixMilli(5000)
	c, _, _ := setup(t,
		mutation.WithConfirmer(mutation.Answer(true)),
		mutation.WithIDSource(&mutation.ClockIDs{Now: func() time.Time { return clock }}),
	)

	first, err := c.Add(ctx, content.KindMeeting, content.Values{"name": "a", "date": "2025-01-01"})
	require.NoError(t, err)
	_, err = c.Delete(ctx, content.KindMeeting, first.RecordID())
	require.NoError(t, err)

	second, err := c.Add(ctx, content.KindMeeting, content.Values{"name": "b", "date": "2025-01-02"})
	require.NoError(t, err)
	assert.Greater(t, second.RecordID(), first.RecordID())
}

func TestInlineUpdate(t *testing.T) {
	ctx := context.Background()
	c, _, _ := setup(t)

	require.NoError(t, c.InlineUpdate(ctx, content.KindNews, 2, "title", "公告章程修訂(更正)"))
	news := c.View().News
	assert.Equal(t, "公告章程修訂(更正)", news[1].Title)
	assert.Equal(t, "2025-11-20", news[1].Date)
	assert.Equal(t, []int64{1, 2}, ids(news))

	require.NoError(t, c.InlineUpdate(ctx, content.KindStaff, 1, "name", "林醫師"))
	assert.Equal(t, "林醫師", c.View().Staff[0].Name)

	assert.ErrorIs(t, c.InlineUpdate(ctx, content.KindFile, 1, "name", "x"), core.ErrUnsupported)
	assert.ErrorIs(t, c.InlineUpdate(ctx, content.KindMeeting, 1, "name", "x"), core.ErrUnsupported)
	assert.ErrorIs(t, c.InlineUpdate(ctx, content.KindStaff, 1, "icon", "user"), core.ErrUnsupported)
	assert.ErrorIs(t, c.InlineUpdate(ctx, content.KindNews, 7, "title", "x"), core.ErrRecordNotFound)
	assert.ErrorIs(t, c.InlineUpdate(ctx, "events", 1, "title", "x"), core.ErrUnknownKind)
}

func TestGuestIsForbidden(t *testing.T) {
	ctx := context.Background()
	c, backend, _ := setup(t, mutation.WithMode(core.Guest), mutation.WithConfirmer(mutation.Answer(true)))
	writes := backend.Writes()

	_, err := c.Add(ctx, content.KindNews, content.Values{"date": "d", "title": "t", "description": "x"})
	assert.ErrorIs(t, err, core.ErrForbidden)
	_, err = c.Edit(ctx, content.KindNews, 1, content.Values{"title": "x"})
	assert.ErrorIs(t, err, core.ErrForbidden)
	_, err = c.Delete(ctx, content.KindNews, 1)
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.ErrorIs(t, c.InlineUpdate(ctx, content.KindNews, 1, "title", "x"), core.ErrForbidden)
	assert.ErrorIs(t, c.Reset(ctx), core.ErrForbidden)
	assert.Equal(t, writes, backend.Writes())

	// A request scoped mode overrides the process-wide one.
	_, err = c.Add(mutation.ContextWithMode(ctx, core.Maintainer), content.KindNews, content.Values{"date": "d", "title": "t", "description": "x"})
	require.NoError(t, err)
	assert.Equal(t, core.Guest, c.Mode())

	c.SetMode(core.Maintainer)
	_, err = c.Edit(ctx, content.KindNews, 1, content.Values{"title": "x"})
	require.NoError(t, err)
}

func TestStorageFailureLeavesMemory(t *testing.T) {
	ctx := context.Background()
	c, backend, _ := setup(t, mutation.WithConfirmer(mutation.Answer(true)))
	before := c.View()

	backend.FailWrites = errors.New("quota exceeded")
	_, err := c.Add(ctx, content.KindNews, content.Values{"date": "d", "title": "t", "description": "x"})
	assert.ErrorIs(t, err, core.ErrStorage)
	_, err = c.Edit(ctx, content.KindStaff, 1, content.Values{"name": "x"})
	assert.ErrorIs(t, err, core.ErrStorage)
	_, err = c.Delete(ctx, content.KindFile, 1)
	assert.ErrorIs(t, err, core.ErrStorage)

	assert.Empty(t, cmp.Diff(before, c.View()))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	c, _, _ := setup(t, mutation.WithConfirmer(mutation.Answer(true)))
	_, err := c.Delete(ctx, content.KindFile, 1)
	require.NoError(t, err)
	_, err = c.Add(ctx, content.KindNews, content.Values{"date": "d", "title": "t", "description": "x"})
	require.NoError(t, err)

	require.NoError(t, c.Reset(ctx))
	v := c.View()
	assert.Empty(t, cmp.Diff(content.FileSpec.Seed(), v.Files))
	assert.Empty(t, cmp.Diff(content.NewsSpec.Seed(), v.News))
}

func TestViewIsACopy(t *testing.T) {
	c, _, _ := setup(t)
	v := c.View()
	v.News[0].Title = "changed"
	assert.NotEqual(t, "changed", c.View().News[0].Title)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	c, _, _ := setup(t)
	events, cancel := c.Subscribe()
	defer cancel()

	rec, err := c.Add(ctx, content.KindMeeting, content.Values{"name": "Q1 Review", "date": "2025-03-01"})
	require.NoError(t, err)

	select {
	case evt := <-events:
		assert.Equal(t, core.EventCreate, evt.Type)
		assert.Equal(t, "meeting", evt.Kind)
		assert.Equal(t, "hrpc_meetings", evt.Key)
		assert.Equal(t, rec.RecordID(), evt.ID)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	cancel()
	_, open := <-events
	assert.False(t, open)
}

func TestSubscribe_SlowSubscriberDrops(t *testing.T) {
	ctx := context.Background()
	c, _, _ := setup(t)
	events, cancel := c.Subscribe()
	defer cancel()

	for i := 0; i < 40; i++ {
		require.NoError(t, c.InlineUpdate(ctx, content.KindNews, 1, "title", fmt.Sprintf("title %d", i)))
	}
	assert.LessOrEqual(t, len(events), 16)
}

func TestMutationBeforeLoad(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := store.New(backend)
	first := mutation.New(s)
	require.NoError(t, first.Load(ctx))
	first.Close()

	c := mutation.New(s, mutation.WithMode(core.Maintainer), mutation.WithIDSource(&seqIDs{}))
	t.Cleanup(c.Close)
	_, err := c.Add(ctx, content.KindMeeting, content.Values{"name": "Q1 Review", "date": "2025-03-01"})
	require.NoError(t, err)

	stored, err := store.Get(ctx, s, content.MeetingSpec.Key, []content.MeetingRecord{})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "Q1 Review", stored[0].Name)
	assert.Equal(t, ids(c.View().Meetings), ids(stored))
}

func TestFindAndRecords(t *testing.T) {
	c, _, _ := setup(t)
	rec, err := c.Find(content.KindStaff, 2)
	require.NoError(t, err)
	assert.Equal(t, "王建贏", rec.Values()["name"])

	_, err = c.Find(content.KindStaff, 5)
	assert.ErrorIs(t, err, core.ErrRecordNotFound)

	recs, err := c.Records(content.KindFile)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	_, err = c.Records("events")
	assert.ErrorIs(t, err, core.ErrUnknownKind)
}

func TestState(t *testing.T) {
	c, _, _ := setup(t)
	st, ok := c.State().(mutation.State)
	require.True(t, ok)
	assert.Equal(t, "maintainer", st.Mode)
	assert.Equal(t, map[string]int{"news": 2, "staff": 2, "file": 3, "meeting": 2}, st.Counts)
	assert.Equal(t, "coordinator", c.ComponentType())
}
