// internal/generation/gemini.go
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"betabot/internal/common/config"
	stderrors "betabot/internal/common/errors"
	"betabot/internal/common/logger"
)

// Gemini invokes the hosted generation service once per query, synchronously.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// NewGemini creates a generation client. An API key selects the Gemini API
// backend; otherwise project/location select Vertex.
func NewGemini(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) (*Gemini, error) {
	clientCfg := &genai.ClientConfig{}
	if cfg.APIKey != "" {
		clientCfg.APIKey = cfg.APIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	} else {
		if cfg.Project == "" {
			return nil, fmt.Errorf("generation: neither api key nor project configured")
		}
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
		clientCfg.Backend = genai.BackendVertexAI
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		client:  client,
		model:   cfg.Model,
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		logger: log.With(map[string]interface{}{
			"collaborator": "generation",
			"model":        cfg.Model,
		}),
	}, nil
}

// Generate runs one completion for the assembled prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", stderrors.NewGenerationTimeoutError(g.model)
		}
		return "", stderrors.NewGenerationFailedError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", stderrors.NewGenerationFailedError(fmt.Errorf("empty completion"))
	}

	g.logger.Info("generation completed", map[string]interface{}{
		"latencyMs": time.Since(start).Milliseconds(),
		"promptLen": len(prompt),
		"answerLen": len(text),
	})

	return text, nil
}

// ModelID returns the configured model identifier.
func (g *Gemini) ModelID() string {
	return g.model
}

// Unavailable is the explicit offline variant used when the generation client
// could not be constructed at startup. It replaces the old nil-client
// sentinel: callers always hold a usable Generator.
type Unavailable struct {
	Model string
	Err   error
}

func (u Unavailable) Generate(ctx context.Context, prompt string) (string, error) {
	return "", stderrors.NewGenerationFailedError(u.Err)
}

func (u Unavailable) ModelID() string {
	if u.Model == "" {
		return "offline"
	}
	return u.Model
}
