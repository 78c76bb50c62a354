package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"diabot/internal/util"

	"github.com/rs/zerolog"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiTimeout = 15 * time.Second
)

// GenerationConfig is sent as-is; the values are fixed for this service.
type GenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

var (
	defaultGenerationConfig = GenerationConfig{
		MaxOutputTokens: 2048,
		Temperature:     0.7,
		TopP:            0.9,
		TopK:            40,
	}
	defaultSafetySettings = []SafetySetting{
		{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
		{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
		{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
		{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
		{Category: "HARM_CATEGORY_CIVIC_INTEGRITY", Threshold: "BLOCK_NONE"},
	}
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
	SafetySettings   []SafetySetting  `json:"safetySettings"`
}

// GeminiProvider calls the generateContent REST endpoint. One attempt per
// call; the client timeout is the only bound on a slow upstream.
type GeminiProvider struct {
	keyName string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

type GeminiOption func(*GeminiProvider)

func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiProvider) {
		if strings.TrimSpace(model) != "" {
			g.model = strings.TrimSpace(model)
		}
	}
}

func WithGeminiBaseURL(base string) GeminiOption {
	return func(g *GeminiProvider) {
		if strings.TrimSpace(base) != "" {
			g.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
		}
	}
}

// WithHTTPClient replaces the default client, e.g. with a mock transport.
// The client itself is never modified.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiProvider) {
		if c != nil {
			g.client = c
		}
	}
}

// WithTimeout bounds each call regardless of option order. It applies to a
// copy of the configured client.
func WithTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiProvider) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) GeminiOption {
	return func(g *GeminiProvider) { g.log = l }
}

// NewGeminiProvider fails when no API key is given.
func NewGeminiProvider(keyName, apiKey string, opts ...GeminiOption) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key missing for alias %q", keyName)
	}
	g := &GeminiProvider{
		keyName: keyName,
		apiKey:  strings.TrimSpace(apiKey),
		model:   DefaultGeminiModel,
		baseURL: DefaultGeminiBaseURL,
		client:  &http.Client{Timeout: DefaultGeminiTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.timeout > 0 {
		c := *g.client
		c.Timeout = g.timeout
		g.client = &c
	}
	return g, nil
}

func (g *GeminiProvider) info() ProviderInfo {
	return ProviderInfo{Name: "gemini", Model: g.model, Key: g.keyName}
}

func (g *GeminiProvider) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s",
		g.baseURL, url.PathEscape(g.model), url.Values{"key": []string{g.apiKey}}.Encode())
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	resp, err := g.generate(ctx, req)
	if err != nil {
		g.log.Warn().
			Err(err).
			Str("operation", req.Operation).
			Str("error_type", string(ClassifyError(err))).
			Msg("gemini api error")
		return GenerateResponse{Status: StatusFailed}, g.info(), err
	}
	if resp.Status == StatusMalformed {
		g.log.Warn().Str("operation", req.Operation).Msg("gemini response missing candidate text")
	}
	return resp, g.info(), nil
}

func (g *GeminiProvider) generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: defaultGenerationConfig,
		SafetySettings:   defaultSafetySettings,
	})
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("encode gemini request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("gemini generate request failed: %w", redactKey(err, g.apiKey))
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("read gemini response: %w", err)
	}
	g.log.Debug().
		Int("status", resp.StatusCode).
		Str("body", util.Preview(string(body), 2000)).
		Msg("gemini raw response")

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GenerateResponse{}, fmt.Errorf("decode gemini response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return GenerateResponse{}, fmt.Errorf("gemini generate error %d: %s", resp.StatusCode, util.Preview(string(body), 500))
	}
	part, ok := candidatePart(parsed)
	if !ok {
		return GenerateResponse{Text: CouldNotProcessText, Status: StatusMalformed}, nil
	}
	raw, present := part["text"]
	if present && raw == nil {
		return GenerateResponse{}, errNoCandidateText
	}
	text, ok := raw.(string)
	if !ok {
		return GenerateResponse{Text: CouldNotProcessText, Status: StatusMalformed}, nil
	}
	if strings.TrimSpace(text) == "" {
		return GenerateResponse{}, errNoCandidateText
	}
	return GenerateResponse{Text: text, Status: StatusAnswered}, nil
}

var errNoCandidateText = errors.New("gemini returned no candidate text")

// ExtractCandidateText walks candidates[0].content.parts[0].text of a decoded
// generateContent response.
func ExtractCandidateText(v any) (string, bool) {
	part, ok := candidatePart(v)
	if !ok {
		return "", false
	}
	text, ok := part["text"].(string)
	return text, ok
}

func candidatePart(v any) (map[string]any, bool) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	candidates, ok := root["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return nil, false
	}
	cand, ok := candidates[0].(map[string]any)
	if !ok {
		return nil, false
	}
	content, ok := cand["content"].(map[string]any)
	if !ok {
		return nil, false
	}
	parts, ok := content["parts"].([]any)
	if !ok || len(parts) == 0 {
		return nil, false
	}
	part, ok := parts[0].(map[string]any)
	return part, ok
}

// redactKey keeps the query-string key out of url.Error messages while
// leaving the cause reachable through errors.Is / errors.As.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	red := strings.ReplaceAll(strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED"), key, "REDACTED")
	if red == msg {
		return err
	}
	return &redactedError{msg: red, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// ResolveGeminiKey prefers DIABOT_GEMINI_KEY_<ALIAS> and falls back to GEMINI_API_KEY.
func ResolveGeminiKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("DIABOT_GEMINI_KEY_" + sanitizeEnvToken(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GEMINI_API_KEY")
}

func sanitizeEnvToken(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
