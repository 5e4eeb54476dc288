package llm

import (
	"context"
	"errors"
	"strings"
)

// LocalProvider is the offline fallback. It echoes a short canned summary so
// the analysis endpoint keeps a stable shape without external calls.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, system, prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", errors.New("empty prompt")
	}
	return "[local] AI analysis unavailable without an API key. Prompt received:\n" + trimmed, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
