package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ModelRequest はLLMへの1回の問い合わせ
type ModelRequest struct {
	Model     string
	System    string
	Prompt    string
	MaxTokens int64
}

// ModelResponse はLLMからの応答テキストとトークン使用量
type ModelResponse struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// ModelCaller はLLM呼び出しのインターフェース
type ModelCaller interface {
	Call(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}

// Client はAnthropic APIを使用したModelCaller実装
type Client struct {
	anthropic *anthropic.Client
}

// NewClient は新しいLLMクライアントを作成する
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{anthropic: &client}, nil
}

// Call はMessages APIを1回呼び出し、テキストブロックを連結して返す。
// 応答にテキストが含まれない場合はエラーを返す。
func (c *Client) Call(ctx context.Context, req ModelRequest) (*ModelResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	message, err := c.anthropic.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, errors.New("model response contained no text")
	}

	return &ModelResponse{
		Text:         text,
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}, nil
}

// コンパイル時のインターフェース実装チェック
var _ ModelCaller = (*Client)(nil)
