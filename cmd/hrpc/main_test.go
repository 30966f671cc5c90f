package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/gate"
)

// run executes the CLI against an fs store in dir.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"HRPC_STORE", "HRPC_DSN", "HRPC_CODEC", "HRPC_ADMIN_SECRET", "HRPC_READ_ONLY"} {
		t.Setenv(k, "")
	}
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--store", "fs", "--dsn", dir}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func listJSON[T any](t *testing.T, dir, kind string, extra ...string) []T {
	t.Helper()
	out, err := run(t, dir, "", append([]string{"list", kind, "--json"}, extra...)...)
	require.NoError(t, err)
	var recs []T
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	return recs
}

func TestList_SeedsOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	news := listJSON[content.Announcement](t, dir, "news")
	require.Len(t, news, 2)
	assert.Equal(t, "2025-11-27", news[0].Date)

	out, err := run(t, dir, "", "list", "file")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "02. 利益衝突申報表.docx")

	_, err = run(t, dir, "", "list", "widgets")
	assert.ErrorIs(t, err, core.ErrUnknownKind)
}

func TestList_Filter(t *testing.T) {
	dir := t.TempDir()

	files := listJSON[content.Document](t, dir, "file", "--filter", `name endsWith ".pdf"`)
	require.Len(t, files, 2)
	assert.Equal(t, int64(1), files[0].ID)
	assert.Equal(t, int64(3), files[1].ID)

	meetings := listJSON[content.MeetingRecord](t, dir, "meeting", "--filter", `date >= "2025-01-01"`)
	require.Len(t, meetings, 1)
	assert.Equal(t, "114年度第一次中心會議", meetings[0].Name)

	_, err := run(t, dir, "", "list", "news", "--filter", `date >=`)
	assert.Error(t, err)
}

func TestAddEditInlineDelete(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "--secret", "admin", "add", "meeting",
		"--set", "name=114年度第二次中心會議", "--set", "date=2025-06-10")
	require.NoError(t, err)
	var added map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, "114年度第二次中心會議", added["name"])

	meetings := listJSON[content.MeetingRecord](t, dir, "meeting")
	require.Len(t, meetings, 3)
	assert.Equal(t, "114年度第二次中心會議", meetings[0].Name)

	_, err = run(t, dir, "", "--secret", "admin", "edit", "staff", "2", "--set", "name=李小明")
	require.NoError(t, err)
	staff := listJSON[content.StaffMember](t, dir, "staff")
	assert.Equal(t, "李小明", staff[1].Name)
	assert.Equal(t, int64(2), staff[1].ID)

	_, err = run(t, dir, "", "--secret", "admin", "inline", "news", "1", "title", "新標題")
	require.NoError(t, err)
	assert.Equal(t, "新標題", listJSON[content.Announcement](t, dir, "news")[0].Title)

	_, err = run(t, dir, "", "--secret", "admin", "inline", "staff", "1", "icon", "user")
	assert.ErrorIs(t, err, core.ErrUnsupported)

	// Declined on the prompt.
	out, err = run(t, dir, "n\n", "--secret", "admin", "delete", "file", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, listJSON[content.Document](t, dir, "file"), 3)

	out, err = run(t, dir, "y\n", "--secret", "admin", "delete", "file", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted file 2.")
	assert.Len(t, listJSON[content.Document](t, dir, "file"), 2)
}

func TestMutations_NeedSecret(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "--secret", "wrong", "add", "news", "--set", "title=x")
	assert.ErrorIs(t, err, gate.ErrWrongSecret)

	// No secret and nothing on stdin: the prompt is cancelled.
	_, err = run(t, dir, "", "delete", "news", "1", "--yes")
	assert.ErrorIs(t, err, core.ErrForbidden)

	// Secret read from stdin.
	_, err = run(t, dir, "admin\n", "delete", "news", "1", "--yes")
	require.NoError(t, err)
	assert.Len(t, listJSON[content.Announcement](t, dir, "news"), 1)
}

func TestAdd_Validation(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "--secret", "admin", "add", "news", "--set", "title=only")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = run(t, dir, "", "--secret", "admin", "add", "news", "--set", "oops")
	assert.Error(t, err)
	assert.Len(t, listJSON[content.Announcement](t, dir, "news"), 2)
}

func TestReset(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "--secret", "admin", "delete", "news", "1", "--yes")
	require.NoError(t, err)

	out, err := run(t, dir, "no\n", "--secret", "admin", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, listJSON[content.Announcement](t, dir, "news"), 1)

	_, err = run(t, dir, "", "--secret", "admin", "reset", "--yes")
	require.NoError(t, err)
	assert.Len(t, listJSON[content.Announcement](t, dir, "news"), 2)
}

func TestSchemaAndVersion(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "schema", "staff")
	require.NoError(t, err)
	assert.Contains(t, out, "enumerated-choice")
	assert.Contains(t, out, "user-md,user,user-nurse,user-tie")

	out, err = run(t, dir, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hrpc version "))
}

func TestAsk_WithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	out, err := run(t, t.TempDir(), "", "ask", "開放時間?")
	require.NoError(t, err)
	assert.Equal(t, "請配置 API KEY 以啟用 AI 助手功能。\n", out)
}

func TestParseSet(t *testing.T) {
	values, err := parseSet([]string{"title=a=b", " name =x"})
	require.NoError(t, err)
	assert.Equal(t, content.Values{"title": "a=b", "name": "x"}, values)

	_, err = parseSet([]string{"=x"})
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	f, err := compileFilter(content.KindNews, `id > 1 && kind == "news" && date >= "2025-01-01"`)
	require.NoError(t, err)

	ok, err := f.Match(content.Announcement{ID: 2, Date: "2025-11-20"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Match(content.Announcement{ID: 1, Date: "2025-11-27"})
	require.NoError(t, err)
	assert.False(t, ok)

	var none *recordFilter
	ok, err = none.Match(content.MeetingRecord{})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = compileFilter(content.KindNews, `(`)
	assert.Error(t, err)

	// Fields of other kinds are unknown.
	_, err = compileFilter(content.KindNews, `icon == "user"`)
	assert.Error(t, err)
}
