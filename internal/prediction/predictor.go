// Package prediction asks a language model for an HVAC equipment
// configuration given a property record and homeowner hints.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/ai/anthropic"
	"hvac_quote_backend/platform/ai/openai"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const appName = "hvac_predictor"

// Predictor runs one sizing agent per call in a throwaway session.
type Predictor struct {
	runner         *runner.Runner
	sessionService session.Service
	log            *logger.Logger
}

// NewFromConfig picks the model named by the configured provider.
func NewFromConfig(cfg config.PredictionConfig, log *logger.Logger) (*Predictor, error) {
	var llm model.LLM
	switch strings.ToLower(cfg.GetPredictionProvider()) {
	case "", "openai":
		llm = openai.NewModel(openai.Config{
			APIKey:  cfg.GetOpenAIAPIKey(),
			BaseURL: cfg.GetOpenAIBaseURL(),
			Model:   cfg.GetOpenAIModel(),
			Timeout: cfg.GetPredictionTimeout(),
		})
	case "anthropic":
		llm = anthropic.NewModel(anthropic.Config{
			APIKey: cfg.GetAnthropicAPIKey(),
			Model:  cfg.GetAnthropicModel(),
		})
	default:
		return nil, fmt.Errorf("unknown prediction provider %q", cfg.GetPredictionProvider())
	}
	return New(llm, log)
}

// New wires an agent around llm.
func New(llm model.LLM, log *logger.Logger) (*Predictor, error) {
	sizingAgent, err := llmagent.New(llmagent.Config{
		Name:        "HVACSizer",
		Model:       llm,
		Description: "Sizes residential heat pump systems from property characteristics.",
		Instruction: SystemPrompt,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0),
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          sizingAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK runner: %w", err)
	}

	return &Predictor{runner: r, sessionService: sessionService, log: log}, nil
}

// Predict returns the configuration for one property. Failures are
// KindUpstream.
func (p *Predictor) Predict(ctx context.Context, property *transport.Property, hints Hints) (Result, error) {
	if property == nil {
		return Result{}, apperr.Validation("property data is required")
	}

	userID := "predict"
	sessionID := uuid.New().String()
	if _, err := p.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "prediction session failed", err)
	}
	defer func() {
		if err := p.sessionService.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		}); err != nil {
			p.log.Warn("failed to delete prediction session", "session_id", sessionID, "error", err)
		}
	}()

	msg := &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: BuildUserMessage(property, hints)}},
	}

	output, err := p.run(ctx, userID, sessionID, msg)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindUpstream, "HVAC prediction failed", err).WithOp("prediction.Predict")
	}

	result, err := Parse(output)
	if err != nil {
		if !errors.Is(err, ErrIncomplete) {
			p.log.Warn("unparseable prediction response", "error", err)
		}
		return Result{}, apperr.Wrap(apperr.KindUpstream, "HVAC prediction failed", err).WithOp("prediction.Predict")
	}
	return result, nil
}

func (p *Predictor) run(ctx context.Context, userID, sessionID string, msg *genai.Content) (string, error) {
	var output strings.Builder
	runConfig := agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	}

	for event, err := range p.runner.Run(ctx, userID, sessionID, msg, runConfig) {
		if err != nil {
			return "", err
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				output.WriteString(part.Text)
			}
		}
	}

	if output.Len() == 0 {
		return "", errors.New("empty model response")
	}
	return output.String(), nil
}
