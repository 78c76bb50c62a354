package providers

import (
	"fmt"
	"time"

	"diabot/internal/config"

	"github.com/rs/zerolog"
)

// NewFromConfig builds the answer generator selected by DIABOT_LLM_PROVIDER.
// A gemini selection without a resolvable key is a startup error.
func NewFromConfig(cfg config.Config, log zerolog.Logger) (LLMProvider, ProviderRef, error) {
	ref := ParseProviderRef(cfg.LLMProvider)
	switch ref.Name {
	case "mock":
		return NewMockProvider(), ref, nil
	case "gemini":
		p, err := NewGeminiProvider(ref.KeyAlias, ResolveGeminiKey(ref.KeyAlias),
			WithGeminiModel(cfg.GeminiModel),
			WithGeminiBaseURL(cfg.GeminiBaseURL),
			WithTimeout(time.Duration(cfg.LLMTimeoutSecs)*time.Second),
			WithLogger(log.With().Str("component", "gemini").Logger()),
		)
		if err != nil {
			return nil, ref, err
		}
		return p, ref, nil
	default:
		return nil, ref, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
