package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const openaiSystemPrompt = `你是新闻翻译助手。将给定的新闻标题和描述翻译成简体中文，并将描述压缩为两三句摘要。
只输出 JSON，不要输出其他文字：
{"title_zh": "...", "summary_zh": "..."}`

// OpenAI translates through the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

var _ Translator = (*OpenAI)(nil)

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAI) Translate(ctx context.Context, title, description string) (*Translation, error) {
	// empty input never reaches the remote service
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return &Translation{}, nil
	}

	userPrompt := fmt.Sprintf("标题: %s\n描述: %s", title, description)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai translate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("openai translate: no choices in response")
	}

	return parseTranslation(resp.Choices[0].Message.Content)
}

// parseTranslation decodes the strict two-field JSON contract, tolerating
// markdown code fences some models wrap around the payload.
func parseTranslation(content string) (*Translation, error) {
	content = stripCodeFence(content)

	var tr Translation
	if err := json.Unmarshal([]byte(content), &tr); err != nil {
		return nil, fmt.Errorf("malformed translation response: %w", err)
	}
	return &tr, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
