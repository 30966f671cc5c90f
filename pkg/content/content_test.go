package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

func TestParseKind(t *testing.T) {
	for _, k := range content.Kinds() {
		got, err := content.ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.NotEmpty(t, k.Key())
	}
	_, err := content.ParseKind("events")
	assert.ErrorIs(t, err, core.ErrUnknownKind)
}

func TestKeysAndOrdering(t *testing.T) {
	assert.Equal(t, "hrpc_news", content.KindNews.Key())
	assert.Equal(t, "hrpc_staff", content.KindStaff.Key())
	assert.Equal(t, "hrpc_files", content.KindFile.Key())
	assert.Equal(t, "hrpc_meetings", content.KindMeeting.Key())

	assert.Equal(t, content.Prepend, content.KindNews.Ordering())
	assert.Equal(t, content.Prepend, content.KindMeeting.Ordering())
	assert.Equal(t, content.Append, content.KindStaff.Ordering())
	assert.Equal(t, content.Append, content.KindFile.Ordering())
}

func TestInsert(t *testing.T) {
	list := []int{1, 2}
	assert.Equal(t, []int{3, 1, 2}, content.Insert(content.Prepend, list, 3))
	assert.Equal(t, []int{1, 2, 3}, content.Insert(content.Append, list, 3))
	assert.Equal(t, []int{1, 2}, list, "input must not be modified")
}

func TestDecode(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		rec, err := content.Decode(content.KindStaff, content.Values{
			"role": "研究護理師", "name": "林小姐", "description": "協助審查", "icon": "user-nurse",
		})
		require.NoError(t, err)
		assert.Equal(t, content.StaffMember{Role: "研究護理師", Name: "林小姐", Description: "協助審查", Icon: content.IconNurse}, rec)
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, err := content.Decode(content.KindNews, content.Values{"title": "x", "description": "  "})
		require.ErrorIs(t, err, core.ErrValidation)
		assert.Contains(t, err.Error(), "date")
		assert.Contains(t, err.Error(), "description")
	})

	t.Run("IllegalEnum", func(t *testing.T) {
		_, err := content.Decode(content.KindFile, content.Values{"name": "a", "date": "2025/01/01", "type": "xls"})
		assert.ErrorIs(t, err, core.ErrValidation)
		_, err = content.Decode(content.KindStaff, content.Values{"role": "a", "name": "b", "description": "c", "icon": "cat"})
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		_, err := content.Decode("events", content.Values{})
		assert.ErrorIs(t, err, core.ErrUnknownKind)
	})
}

func TestValuesRoundTrip(t *testing.T) {
	for _, rec := range []content.Record{
		content.NewsSpec.Seed()[0],
		content.StaffSpec.Seed()[0],
		content.FileSpec.Seed()[1],
		content.MeetingSpec.Seed()[0],
	} {
		got, err := content.Decode(rec.RecordKind(), rec.Values())
		require.NoError(t, err)
		assert.Equal(t, rec.Values(), got.Values())
		assert.Zero(t, got.RecordID())
	}
}

func TestWithID(t *testing.T) {
	m, err := content.DecodeAs[content.MeetingRecord](content.Values{"name": "Q1 Review", "date": "2025-03-01"})
	require.NoError(t, err)
	m = content.WithID(m, 42)
	assert.Equal(t, content.MeetingRecord{ID: 42, Name: "Q1 Review", Date: "2025-03-01"}, m)
}

func TestSeedIsFreshCopy(t *testing.T) {
	a := content.NewsSpec.Seed()
	a[0].Title = "changed"
	b := content.NewsSpec.Seed()
	assert.NotEqual(t, "changed", b[0].Title)
	assert.Equal(t, "2025-11-27", b[0].Date)
	assert.Equal(t, "2025-11-20", b[1].Date)
}

func TestMap(t *testing.T) {
	m := content.Map(content.FileSpec.Seed()[0])
	assert.Equal(t, int64(1), m["id"])
	assert.Equal(t, "pdf", m["type"])
	assert.Equal(t, "file", m["kind"])
}
