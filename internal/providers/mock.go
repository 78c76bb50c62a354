package providers

import (
	"context"
	"strings"
)

// MockProvider answers deterministically without network access.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	question := ""
	for _, line := range strings.Split(req.Prompt, "\n") {
		if strings.HasPrefix(line, "User question: ") {
			question = strings.TrimPrefix(line, "User question: ")
			break
		}
	}
	text := "Mock answer based on the retrieved diabetes knowledge."
	if question != "" {
		text = "Mock answer to \"" + question + "\" based on the retrieved diabetes knowledge."
	}
	text += " This chatbot is for educational purposes only."
	return GenerateResponse{Text: text, Status: StatusAnswered}, ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}, nil
}
