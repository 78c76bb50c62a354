package providers

import (
	"testing"

	"diabot/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigGeminiRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, _, err := NewFromConfig(config.Config{LLMProvider: "gemini"}, zerolog.Nop())
	require.ErrorContains(t, err, "gemini api key missing")
}

func TestNewFromConfigGeminiAliasKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DIABOT_GEMINI_KEY_CLINIC", "fake-key")
	p, ref, err := NewFromConfig(config.Config{LLMProvider: "gemini:clinic", LLMTimeoutSecs: 15}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "clinic", ref.KeyAlias)
	g, ok := p.(*GeminiProvider)
	require.True(t, ok)
	require.Equal(t, "fake-key", g.apiKey)
	require.Equal(t, DefaultGeminiTimeout, g.client.Timeout)
}

func TestNewFromConfigMockAndUnknown(t *testing.T) {
	p, _, err := NewFromConfig(config.Config{LLMProvider: "mock"}, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &MockProvider{}, p)

	_, _, err = NewFromConfig(config.Config{LLMProvider: "groq"}, zerolog.Nop())
	require.ErrorContains(t, err, "unsupported provider")
}
