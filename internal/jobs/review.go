package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeguardian-ai/codeguardian/internal/config"
	"github.com/codeguardian-ai/codeguardian/internal/core"
	"github.com/codeguardian-ai/codeguardian/internal/github"
	"github.com/codeguardian-ai/codeguardian/internal/llm"
)

// ReviewJob is the background pipeline behind a qualifying webhook delivery:
// fetch the PR diff, ask the model for a review, and publish the result.
type ReviewJob struct {
	cfg       *config.Config
	diffs     github.DiffFetcher
	reviewer  llm.Reviewer
	publisher Publisher
	logger    *slog.Logger
}

// NewReviewJob creates a ReviewJob with its collaborators.
func NewReviewJob(cfg *config.Config, diffs github.DiffFetcher, reviewer llm.Reviewer, publisher Publisher, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if diffs == nil {
		panic("diff fetcher cannot be nil")
	}
	if reviewer == nil {
		panic("reviewer cannot be nil")
	}
	if publisher == nil {
		panic("publisher cannot be nil")
	}
	return &ReviewJob{cfg: cfg, diffs: diffs, reviewer: reviewer, publisher: publisher, logger: logger}
}

// Run executes one review pipeline run. Skip conditions (empty diff, diff over
// the size limit) end the run cleanly with a log line; anything else that goes
// wrong is returned to the dispatcher's worker boundary.
func (j *ReviewJob) Run(ctx context.Context, event *core.PullRequestEvent) error {
	j.logger.Info("starting review job", "repo", event.RepoFullName, "pr", event.PRNumber)

	diff, err := j.diffs.Fetch(ctx, event.DiffURL)
	if err != nil {
		return fmt.Errorf("failed to fetch diff: %w", err)
	}

	if len(diff) == 0 {
		j.logger.Info("diff is empty, skipping review", "repo", event.RepoFullName, "pr", event.PRNumber)
		return nil
	}
	if len(diff) > j.cfg.MaxDiffBytes {
		j.logger.Info("diff is too large, skipping review",
			"repo", event.RepoFullName,
			"pr", event.PRNumber,
			"diff_bytes", len(diff),
			"limit", j.cfg.MaxDiffBytes,
		)
		return nil
	}

	j.logger.Info("sending diff to model for review", "repo", event.RepoFullName, "pr", event.PRNumber)
	review, err := j.reviewer.GenerateReview(ctx, diff)
	if err != nil {
		return fmt.Errorf("failed to generate review: %w", err)
	}

	if err := j.publisher.Publish(ctx, event, review); err != nil {
		return fmt.Errorf("failed to publish review: %w", err)
	}

	j.logger.Info("review job completed successfully", "repo", event.RepoFullName, "pr", event.PRNumber)
	return nil
}
