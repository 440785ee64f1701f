package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/goframe/llms"
)

// Model is the subset of the goframe LLM client used by the reviewer.
type Model interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// Reviewer turns a pull request diff into review text.
type Reviewer interface {
	GenerateReview(ctx context.Context, diff string) (string, error)
}

// reviewPromptData is the data passed to the code review prompt template.
type reviewPromptData struct {
	Diff string
}

type modelReviewer struct {
	model    Model
	prompts  *PromptManager
	provider ModelProvider
	logger   *slog.Logger
}

// NewReviewer creates a Reviewer backed by the given generative model.
func NewReviewer(model Model, prompts *PromptManager, provider string, logger *slog.Logger) Reviewer {
	return &modelReviewer{
		model:    model,
		prompts:  prompts,
		provider: ModelProvider(provider),
		logger:   logger,
	}
}

// GenerateReview renders the code review prompt for the diff and invokes the
// model. An empty model response is treated as a failure so that no blank
// comment is ever posted.
func (r *modelReviewer) GenerateReview(ctx context.Context, diff string) (string, error) {
	prompt, err := r.prompts.Render(CodeReviewPrompt, r.provider, reviewPromptData{Diff: diff})
	if err != nil {
		return "", fmt.Errorf("failed to render review prompt: %w", err)
	}

	r.logger.Debug("sending diff to generative model", "prompt_bytes", len(prompt))
	review, err := r.model.Call(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	review = strings.TrimSpace(review)
	if review == "" {
		return "", fmt.Errorf("model returned an empty review")
	}
	return review, nil
}
