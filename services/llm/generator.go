// Package llm turns prompts into structured rants through a text
// generation backend.
package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"rantify/blueprint"
)

const DefaultMaxAttempts = 3

// Backend sends one prompt to a model and returns its raw text answer.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator invokes the backend until its output parses, at most
// maxAttempts times. Only parse failures are retried; backend errors are
// returned as is.
type Generator struct {
	backend     Backend
	maxAttempts int
	logger      *zap.Logger
}

func NewGenerator(backend Backend, maxAttempts int, logger *zap.Logger) (*Generator, error) {
	if backend == nil {
		return nil, errors.New("llm: backend is required")
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{backend: backend, maxAttempts: maxAttempts, logger: logger}, nil
}

func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate sends the same prompt on every attempt.
func (g *Generator) Generate(ctx context.Context, prompt string, shape blueprint.ResultShape) (*Output, error) {
	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := g.backend.Complete(ctx, prompt)
		if err != nil {
			g.logger.Error("[services][llm][Generate] error - backend call failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}

		out, err := Parse(text, shape)
		if err == nil {
			if attempt > 1 {
				g.logger.Info("[services][llm][Generate] output parsed after retry", zap.Int("attempt", attempt))
			}
			return out, nil
		}
		if !errors.Is(err, blueprint.ErrParseFailed) {
			return nil, err
		}

		lastErr = err
		g.logger.Warn("[services][llm][Generate] warning - could not parse output", zap.Int("attempt", attempt), zap.Int("max_attempts", g.maxAttempts), zap.Error(err))
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", blueprint.ErrGenerationExhausted, g.maxAttempts, lastErr)
}
