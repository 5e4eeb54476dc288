package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"

	"github.com/smartkollect/kollect/internal/common"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func (p *OpenAIProvider) Chat(ctx context.Context, system, prompt string) (string, error) {
	logger := common.Logger()
	logger.Debug("llm: sending chat completion", "model", p.model)
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		logger.Error("llm: chat completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}
