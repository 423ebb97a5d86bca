package completion

import (
	"context"
	"errors"

	"telegram-chat-gateway/pkg/gemini"
	"telegram-chat-gateway/pkg/openai"
)

// OpenAIAdapter adapts pkg/openai to the completion.Provider interface
type OpenAIAdapter struct {
	name   string
	client *openai.Client
}

// NewOpenAIAdapter creates a new OpenAI-compatible adapter. The name is kept
// separate from the wire client so deepseek-style endpoints report their own
// provider name in logs.
func NewOpenAIAdapter(name string, client *openai.Client) *OpenAIAdapter {
	return &OpenAIAdapter{name: name, client: client}
}

// GenerateContent implements Provider interface
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	oaReq := &openai.Request{
		Messages:    make([]openai.ChatMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		oaReq.Messages = append(oaReq.Messages, openai.ChatMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := a.client.GenerateContent(ctx, oaReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &Error{Kind: kindForStatus(apiErr.StatusCode), Provider: a.name, Err: err}
		}
		return nil, &Error{Kind: KindTransient, Provider: a.name, Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &Error{Kind: KindFatal, Provider: a.name, Err: ErrEmptyResponse}
	}

	return &Response{
		Content:      resp.Choices[0].Message.Content,
		ProviderName: a.name,
		ModelName:    resp.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name implements Provider interface
func (a *OpenAIAdapter) Name() string { return a.name }

// Model implements Provider interface
func (a *OpenAIAdapter) Model() string { return a.client.Model() }

// GeminiAdapter adapts pkg/gemini to the completion.Provider interface
type GeminiAdapter struct {
	client *gemini.Client
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client *gemini.Client) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	gReq := &gemini.GenerateRequest{}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			gReq.SystemInstruction = &gemini.Content{Parts: []gemini.Part{{Text: m.Content}}}
		case "assistant":
			gReq.Contents = append(gReq.Contents, gemini.Content{Role: "model", Parts: []gemini.Part{{Text: m.Content}}})
		default:
			gReq.Contents = append(gReq.Contents, gemini.Content{Role: "user", Parts: []gemini.Part{{Text: m.Content}}})
		}
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		gReq.GenerationConfig = &gemini.GenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	resp, err := a.client.GenerateContent(ctx, gReq)
	if err != nil {
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) {
			return nil, &Error{Kind: kindForStatus(apiErr.StatusCode), Provider: a.Name(), Err: err}
		}
		return nil, &Error{Kind: KindTransient, Provider: a.Name(), Err: err}
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &Error{Kind: KindFatal, Provider: a.Name(), Err: ErrEmptyResponse}
	}

	out := &Response{
		Content:      resp.Candidates[0].Content.Parts[0].Text,
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage:        &Usage{},
	}
	if resp.UsageMetadata != nil {
		out.Usage = &Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}
	return out, nil
}

// Name implements Provider interface
func (a *GeminiAdapter) Name() string { return "gemini" }

// Model implements Provider interface
func (a *GeminiAdapter) Model() string { return a.client.Model() }
