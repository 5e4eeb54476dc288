// Package llm provides the chat-completion provider used for AI-assisted
// customer analysis. When no API key is configured a deterministic local
// provider answers instead, so the analysis endpoint stays usable in
// development.
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/smartkollect/kollect/internal/common"
)

// Provider produces one completion for a system prompt plus user prompt.
type Provider interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

// NewProvider selects the OpenAI-backed provider when OPENAI_API_KEY is set
// and the local fallback otherwise.
func NewProvider() Provider {
	logger := common.Logger()
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		logger.Warn("llm: OPENAI_API_KEY not set; using local provider")
		return NewLocalProvider()
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		logger.Info("llm: using custom endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	model := strings.TrimSpace(os.Getenv("OPENAI_CHAT_MODEL"))
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	logger.Info("llm: OpenAI provider selected", "model", model)
	client := openai.NewClient(opts...)
	return &OpenAIProvider{client: client, model: model}
}
