package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type GenerateRequest struct {
	Operation string `json:"operation"`
	Prompt    string `json:"prompt"`
}

// Status tags how a generation attempt ended.
type Status string

const (
	StatusAnswered  Status = "answered"
	StatusMalformed Status = "malformed"
	StatusFailed    Status = "failed"
)

// CouldNotProcessText is returned as the answer when the upstream replied
// successfully but the reply did not have the expected shape.
const CouldNotProcessText = "I'm sorry, I couldn't process the response."

// GenerateResponse carries Text for StatusAnswered and StatusMalformed.
// StatusFailed has no text and is always paired with a non-nil error.
type GenerateResponse struct {
	Text   string `json:"text"`
	Status Status `json:"status"`
}

func (r GenerateResponse) Failed() bool { return r.Status == StatusFailed || r.Status == "" }

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
