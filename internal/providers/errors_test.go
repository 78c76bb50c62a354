package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"RESOURCE_EXHAUSTED: quota":       ErrorQuota,
		"gemini generate error 429":       ErrorRate,
		"input token count exceeds limit": ErrorContext,
		"service unavailable":             ErrorTransient,
		"bad request":                     ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
	if got := ClassifyError(fmt.Errorf("post: %w", context.DeadlineExceeded)); got != ErrorTransient {
		t.Fatalf("deadline: got %s", got)
	}
	if got := ClassifyError(nil); got != "" {
		t.Fatalf("nil: got %s", got)
	}
}
