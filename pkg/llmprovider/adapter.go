package llmprovider

import (
	"context"

	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/deepseek"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/gemini"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/qwen"
)

// GeminiAdapter adapts the Gemini client to the Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

var _ Provider = (*GeminiAdapter)(nil)

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

func (a *GeminiAdapter) Name() string {
	return "gemini"
}

func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	messages := make([]gemini.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, gemini.Message{Role: m.Role, Text: m.Text})
	}

	resp, err := a.client.GenerateContent(ctx, &gemini.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          messages,
		Model:             req.Model,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = a.client.Model()
	}

	return &Response{
		Text:         resp.Text,
		ProviderName: a.Name(),
		ModelName:    model,
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// DeepSeekAdapter adapts the DeepSeek client to the Provider interface
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

var _ Provider = (*DeepSeekAdapter)(nil)

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

func (a *DeepSeekAdapter) Name() string {
	return "deepseek"
}

func (a *DeepSeekAdapter) Model() string {
	return a.client.Model()
}

func (a *DeepSeekAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	messages := make([]deepseek.Message, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, deepseek.Message{Role: "system", Content: req.SystemInstruction})
	}
	for _, m := range req.Messages {
		messages = append(messages, deepseek.Message{Role: m.Role, Content: m.Text})
	}

	resp, err := a.client.GenerateContent(ctx, &deepseek.Request{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	model := resp.Model
	if model == "" {
		model = a.client.Model()
	}

	return &Response{
		Text:         text,
		ProviderName: a.Name(),
		ModelName:    model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// QwenAdapter adapts the Qwen client to the Provider interface
type QwenAdapter struct {
	client qwen.IQwen
}

var _ Provider = (*QwenAdapter)(nil)

// NewQwenAdapter creates a new Qwen adapter
func NewQwenAdapter(client qwen.IQwen) *QwenAdapter {
	return &QwenAdapter{client: client}
}

func (a *QwenAdapter) Name() string {
	return "qwen"
}

func (a *QwenAdapter) Model() string {
	return a.client.Model()
}

func (a *QwenAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	messages := make([]qwen.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, qwen.Message{Role: m.Role, Text: m.Text})
	}

	resp, err := a.client.GenerateContent(ctx, &qwen.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          messages,
		Model:             req.Model,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = a.client.Model()
	}

	return &Response{
		Text:         resp.Text,
		ProviderName: a.Name(),
		ModelName:    model,
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
