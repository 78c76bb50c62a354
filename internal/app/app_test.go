package app

import (
	"context"
	"testing"

	"diabot/internal/config"
	"diabot/internal/knowledge"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DatabaseURL:   ":memory:",
		KnowledgeDir:  "../../knowledge",
		KnowledgeExts: []string{".txt"},
		ModelPath:     "../../models/model.yaml",
		ScalerPath:    "../../models/scaler.yaml",
		LLMProvider:   "mock",
		JWTSecret:     "test",
		JWTTTLMinutes: 5,
	}
}

func TestNewBuildsEverything(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, len(a.Documents), a.Index.Len())
	assert.True(t, a.Predictor.Ready())
	require.NotNil(t, a.Auth)
	require.NotNil(t, a.Users)
	require.NotNil(t, a.Predictions)

	resp, err := a.Chat.Ask(context.Background(), "what is insulin?")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Answer)
	assert.Len(t, resp.Sources, 3)
}

func TestNewWithMissingArtifactsStillStarts(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModelPath = "missing.yaml"
	cfg.KnowledgeDir = t.TempDir()
	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Predictor.Ready())
	require.Len(t, a.Documents, 1)
	assert.Equal(t, knowledge.PlaceholderName, a.Documents[0].Name)
}

func TestNewRejectsUnknownProviderAndDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = "openai"
	_, err := New(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)

	cfg = testConfig(t)
	cfg.DatabaseURL = "mysql://localhost/db"
	_, err = New(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestGeminiWithoutKeyFailsStartup(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := testConfig(t)
	cfg.LLMProvider = "gemini"
	_, err := New(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}
