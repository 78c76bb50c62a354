// Package chat answers diabetes questions from the knowledge base.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"diabot/internal/providers"
	"diabot/internal/retrieval"

	"github.com/rs/zerolog"
)

const (
	DefaultTopK = 3

	// NoResponseText replaces the answer when the generator call failed or
	// produced nothing.
	NoResponseText = "I'm sorry, I could not get a response."
)

var ErrEmptyQuestion = errors.New("question is empty")

type Source struct {
	Source string `json:"source"`
	Score  string `json:"score"`
}

type Response struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Retriever is satisfied by *retrieval.Index.
type Retriever interface {
	Query(q string, k int) []retrieval.Hit
}

type Service struct {
	retriever Retriever
	llm       providers.LLMProvider
	persona   string
	topK      int
	log       zerolog.Logger
}

func NewService(r Retriever, llm providers.LLMProvider, log zerolog.Logger) *Service {
	return &Service{
		retriever: r,
		llm:       llm,
		persona:   DefaultPersona,
		topK:      DefaultTopK,
		log:       log,
	}
}

// Ask runs retrieval, prompt composition and one generator call. The only
// error it returns is ErrEmptyQuestion; generator failures become fallback text.
func (s *Service) Ask(ctx context.Context, question string) (Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Response{}, ErrEmptyQuestion
	}

	hits := s.retriever.Query(question, s.topK)
	texts := make([]string, 0, len(hits))
	sources := make([]Source, 0, len(hits))
	for _, h := range hits {
		texts = append(texts, h.Text)
		sources = append(sources, Source{Source: h.Name, Score: fmt.Sprintf("%.4f", h.Score)})
	}

	prompt := ComposePrompt(PromptInput{
		Context:  strings.Join(texts, "\n\n"),
		Options:  GuidanceOptions,
		Question: question,
		Persona:  s.persona,
	})
	s.log.Debug().Int("hits", len(hits)).Int("prompt_len", len(prompt)).Msg("chat prompt composed")

	resp, info, err := s.llm.Generate(ctx, providers.GenerateRequest{Operation: "chat_answer", Prompt: prompt})
	answer := resp.Text
	if err != nil || resp.Failed() || strings.TrimSpace(answer) == "" {
		s.log.Warn().Err(err).Str("provider", info.Name).Msg("answer generation failed, using fallback")
		answer = NoResponseText
	}
	return Response{Answer: answer, Sources: sources}, nil
}
