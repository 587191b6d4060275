package anthropic

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

type mockMessages struct {
	mock.Mock
}

func (m *mockMessages) New(ctx context.Context, params sdk.MessageNewParams, _ ...option.RequestOption) (*sdk.Message, error) {
	args := m.Called(ctx, params)
	msg, _ := args.Get(0).(*sdk.Message)
	return msg, args.Error(1)
}

func TestGenerateContentMapsSystemAndText(t *testing.T) {
	api := new(mockMessages)
	api.On("New", mock.Anything, mock.MatchedBy(func(p sdk.MessageNewParams) bool {
		return len(p.System) == 1 && len(p.Messages) == 1 && p.MaxTokens == defaultMaxTokens
	})).Return(&sdk.Message{
		Content: []sdk.ContentBlockUnion{{Type: "text", Text: `{"numberOfODU":2}`}},
	}, nil)

	m := NewModelWithAPI(Config{Model: "claude-sonnet-4-5-20250929"}, api)
	temp := float32(0)
	req := &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("predict", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("sizing consultant", genai.RoleUser),
			Temperature:       &temp,
			ResponseMIMEType:  "application/json",
		},
	}

	for resp, err := range m.GenerateContent(context.Background(), req, false) {
		require.NoError(t, err)
		assert.Equal(t, `{"numberOfODU":2}`, resp.Content.Parts[0].Text)
	}
	api.AssertExpectations(t)
}

func TestGenerateContentWrapsError(t *testing.T) {
	api := new(mockMessages)
	api.On("New", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

	m := NewModelWithAPI(Config{Model: "m"}, api)
	for _, err := range m.GenerateContent(context.Background(), &model.LLMRequest{}, false) {
		assert.ErrorContains(t, err, "overloaded")
	}
}
