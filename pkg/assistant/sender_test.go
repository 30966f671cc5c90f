package assistant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
)

func TestGeminiSenderWithoutKey(t *testing.T) {
	g := assistant.NewGeminiSender("")
	assert.False(t, g.Configured())
	assert.Equal(t, assistant.DefaultModel, g.Model())

	reply, err := g.Send(context.Background(), "開放時間?")
	require.NoError(t, err)
	assert.Equal(t, assistant.MissingKeyReply, reply)

	state, ok := g.State().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, state["configured"])
	assert.Equal(t, "", state["session"])
}

func TestGeminiSenderModel(t *testing.T) {
	g := assistant.NewGeminiSender("key", assistant.WithModel("gemini-2.0-flash"))
	assert.True(t, g.Configured())
	assert.Equal(t, "gemini-2.0-flash", g.Model())

	g = assistant.NewGeminiSender("key", assistant.WithModel(""))
	assert.Equal(t, assistant.DefaultModel, g.Model())
	assert.Equal(t, "gemini", g.ComponentType())
}
