package gate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/gate"
)

func answer(secret string, ok bool) gate.Prompt {
	return func() (string, bool) { return secret, ok }
}

func TestToggle(t *testing.T) {
	g := gate.New("")

	mode, err := g.Toggle(core.Guest, answer("admin", true))
	require.NoError(t, err)
	assert.Equal(t, core.Maintainer, mode)

	mode, err = g.Toggle(core.Maintainer, func() (string, bool) {
		t.Fatal("leaving maintainer mode must not prompt")
		return "", false
	})
	require.NoError(t, err)
	assert.Equal(t, core.Guest, mode)
}

func TestToggle_WrongSecret(t *testing.T) {
	g := gate.New("s3cret")
	mode, err := g.Toggle(core.Guest, answer("admin", true))
	assert.ErrorIs(t, err, gate.ErrWrongSecret)
	assert.Equal(t, core.Guest, mode)
}

func TestToggle_Cancelled(t *testing.T) {
	g := gate.New("s3cret")
	mode, err := g.Toggle(core.Guest, answer("", false))
	require.NoError(t, err)
	assert.Equal(t, core.Guest, mode)
}

func TestCheck(t *testing.T) {
	g := gate.New("s3cret")
	assert.True(t, g.Check("s3cret"))
	assert.False(t, g.Check("s3cre"))
	assert.False(t, g.Check(""))
}

func TestCheck_LongSecret(t *testing.T) {
	base := strings.Repeat("x", 80)
	g := gate.New(base + "a")
	assert.True(t, g.Check(base+"a"))
	assert.False(t, g.Check(base+"b"))
}
