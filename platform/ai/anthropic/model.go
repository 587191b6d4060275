// Package anthropic adapts the Anthropic Messages API to the ADK model.LLM
// interface.
package anthropic

import (
	"context"
	"fmt"
	"iter"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const defaultMaxTokens = 2048

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// MessagesAPI is the part of the SDK client the adapter calls.
type MessagesAPI interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

type Model struct {
	config   Config
	messages MessagesAPI
}

var _ model.LLM = (*Model)(nil)

func NewModel(cfg Config) *Model {
	client := sdk.NewClient(option.WithAPIKey(cfg.APIKey))
	return NewModelWithAPI(cfg, &client.Messages)
}

func NewModelWithAPI(cfg Config, api MessagesAPI) *Model {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Model{config: cfg, messages: api}
}

func (m *Model) Name() string {
	return m.config.Model
}

func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

func (m *Model) buildParams(req *model.LLMRequest) sdk.MessageNewParams {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(m.config.Model),
		MaxTokens: m.config.MaxTokens,
		Messages:  toSDKMessages(req.Contents),
	}
	if req.Config == nil {
		return params
	}

	system := contentText(req.Config.SystemInstruction)
	if req.Config.ResponseMIMEType == "application/json" {
		system = strings.TrimSpace(system + "\n\nRespond with a single JSON object and nothing else.")
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	if req.Config.Temperature != nil {
		params.Temperature = sdk.Float(float64(*req.Config.Temperature))
	}
	if req.Config.MaxOutputTokens > 0 {
		params.MaxTokens = int64(req.Config.MaxOutputTokens)
	}
	return params
}

func (m *Model) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	msg, err := m.messages.New(ctx, m.buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic: create message: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	parts := make([]*genai.Part, 0, 1)
	if strings.TrimSpace(text.String()) != "" {
		parts = append(parts, genai.NewPartFromText(text.String()))
	}

	return &model.LLMResponse{
		Content: &genai.Content{Role: genai.RoleModel, Parts: parts},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     int32(msg.Usage.InputTokens),
			CandidatesTokenCount: int32(msg.Usage.OutputTokens),
			TotalTokenCount:      int32(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

func toSDKMessages(contents []*genai.Content) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(contents))
	for _, content := range contents {
		text := contentText(content)
		if text == "" {
			continue
		}
		block := sdk.NewTextBlock(text)
		if string(content.Role) == string(genai.RoleModel) {
			out = append(out, sdk.NewAssistantMessage(block))
			continue
		}
		out = append(out, sdk.NewUserMessage(block))
	}
	return out
}

func contentText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part == nil || strings.TrimSpace(part.Text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
