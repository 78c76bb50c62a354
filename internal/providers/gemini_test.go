package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestGemini(t *testing.T, srv *httptest.Server, opts ...GeminiOption) *GeminiProvider {
	t.Helper()
	opts = append([]GeminiOption{WithGeminiBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	g, err := NewGeminiProvider("", "fake-key", opts...)
	require.NoError(t, err)
	return g
}

func TestGeminiGenerateSendsExpectedPayload(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		require.Equal(t, "fake-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Keep active."}]}}]}`)
	}))
	defer srv.Close()

	resp, info, err := newTestGemini(t, srv).Generate(context.Background(), GenerateRequest{Prompt: "hello"})
	require.NoError(t, err)
	require.Equal(t, StatusAnswered, resp.Status)
	require.Equal(t, "Keep active.", resp.Text)
	require.Equal(t, "gemini", info.Name)

	require.Len(t, got.Contents, 1)
	require.Equal(t, "user", got.Contents[0].Role)
	require.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	require.Equal(t, defaultGenerationConfig, got.GenerationConfig)
	require.Len(t, got.SafetySettings, 5)
	for _, s := range got.SafetySettings {
		require.Equal(t, "BLOCK_NONE", s.Threshold)
	}
}

func TestGeminiNon200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	g := newTestGemini(t, srv, WithLogger(zerolog.New(&logs)))
	resp, _, err := g.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	require.Error(t, err)
	require.True(t, resp.Failed())
	require.Empty(t, resp.Text)
	require.Contains(t, logs.String(), "gemini api error")
}

func TestGeminiMalformed200IsDistinctFromFailure(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{"finishReason":"SAFETY"}]}`,
		`{"candidates":[{"content":{"parts":[{"text":42}]}}]}`,
		`[1,2,3]`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}))
		resp, _, err := newTestGemini(t, srv).Generate(context.Background(), GenerateRequest{Prompt: "q"})
		srv.Close()
		require.NoError(t, err, body)
		require.Equal(t, StatusMalformed, resp.Status, body)
		require.Equal(t, CouldNotProcessText, resp.Text, body)
		require.False(t, resp.Failed())
	}
}

func TestGeminiEmptyOrNullTextIsFailure(t *testing.T) {
	bodies := []string{
		`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":"  \n"}]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":null}]}}]}`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}))
		resp, _, err := newTestGemini(t, srv).Generate(context.Background(), GenerateRequest{Prompt: "q"})
		srv.Close()
		require.ErrorIs(t, err, errNoCandidateText, body)
		require.True(t, resp.Failed(), body)
		require.Empty(t, resp.Text, body)
	}
}

func TestGeminiNonJSONBodyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()
	resp, _, err := newTestGemini(t, srv).Generate(context.Background(), GenerateRequest{Prompt: "q"})
	require.Error(t, err)
	require.Equal(t, StatusFailed, resp.Status)
}

func TestGeminiTransportErrorIsRedactedFailure(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})}
	g, err := NewGeminiProvider("", "secret-key", WithHTTPClient(client))
	require.NoError(t, err)
	resp, _, err := g.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	require.Error(t, err)
	require.True(t, resp.Failed())
	require.NotContains(t, err.Error(), "secret-key")
}

func TestGeminiTimeoutIsFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g := newTestGemini(t, srv, WithTimeout(50*time.Millisecond))
	resp, _, err := g.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	require.Error(t, err)
	require.True(t, resp.Failed())
	require.Equal(t, ErrorTransient, ClassifyError(err))
}

func TestGeminiTimeoutLeavesCallerClientUntouched(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	after, err := NewGeminiProvider("", "k", WithHTTPClient(shared), WithTimeout(2*time.Second))
	require.NoError(t, err)
	before, err := NewGeminiProvider("", "k", WithTimeout(2*time.Second), WithHTTPClient(shared))
	require.NoError(t, err)

	require.Equal(t, time.Minute, shared.Timeout)
	for _, g := range []*GeminiProvider{after, before} {
		require.NotSame(t, shared, g.client)
		require.Equal(t, 2*time.Second, g.client.Timeout)
	}

	plain, err := NewGeminiProvider("", "k", WithHTTPClient(shared))
	require.NoError(t, err)
	require.Same(t, shared, plain.client)
}

func TestExtractCandidateText(t *testing.T) {
	var v any
	require.NoError(t, json.Unmarshal([]byte(`{"candidates":[{"content":{"parts":[{"text":"a"},{"text":"b"}]}}]}`), &v))
	text, ok := ExtractCandidateText(v)
	require.True(t, ok)
	require.Equal(t, "a", text)

	_, ok = ExtractCandidateText(nil)
	require.False(t, ok)
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	_, err := NewGeminiProvider("alias", "  ")
	require.Error(t, err)
}

func TestMockProviderEchoesQuestion(t *testing.T) {
	resp, info, err := NewMockProvider().Generate(context.Background(), GenerateRequest{Prompt: "ctx\nUser question: what is hba1c?\nmore"})
	require.NoError(t, err)
	require.Equal(t, "mock", info.Name)
	require.Equal(t, StatusAnswered, resp.Status)
	require.True(t, strings.Contains(resp.Text, "what is hba1c?"))
}
