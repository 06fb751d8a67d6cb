package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini translates through the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Translator = (*Gemini)(nil)

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *Gemini) Translate(ctx context.Context, title, description string) (*Translation, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return &Translation{}, nil
	}

	prompt := fmt.Sprintf(`将下面的新闻翻译成简体中文，并将描述压缩为两三句摘要。
只输出 JSON，不要输出其他文字：
{"title_zh": "...", "summary_zh": "..."}

标题: %s
描述: %s`, title, description)

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini translate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini translate: empty response")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return parseTranslation(content)
}
