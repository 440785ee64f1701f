package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codeguardian-ai/codeguardian/internal/core"
	"github.com/codeguardian-ai/codeguardian/internal/crypto"
	"github.com/codeguardian-ai/codeguardian/internal/github"
	"github.com/codeguardian-ai/codeguardian/internal/storage"
)

// commentBanner prefixes every posted review so users can tell automated
// comments from human ones.
const commentBanner = "**CodeGuardian AI Review:**\n\n"

// Publisher delivers a finished review: it posts the PR comment on behalf of
// the repository owner and persists the review record.
type Publisher interface {
	Publish(ctx context.Context, event *core.PullRequestEvent, review string) error
}

type reviewPublisher struct {
	store     storage.Store
	cipher    *crypto.TokenCipher
	newClient github.ClientFactory
	logger    *slog.Logger
}

// NewPublisher creates a Publisher backed by the given store and token cipher.
func NewPublisher(store storage.Store, cipher *crypto.TokenCipher, newClient github.ClientFactory, logger *slog.Logger) Publisher {
	return &reviewPublisher{
		store:     store,
		cipher:    cipher,
		newClient: newClient,
		logger:    logger,
	}
}

// Publish looks up the monitored repository and its owner's credential, posts
// the review comment, and saves the review record. An untracked repository is
// a clean skip: hooks can keep firing for a while after a repository was
// deactivated on our side. The record is only written after the comment was
// posted; if persisting fails the comment stays up and the failure is logged.
func (p *reviewPublisher) Publish(ctx context.Context, event *core.PullRequestEvent, review string) error {
	repo, err := p.store.GetRepositoryByFullName(ctx, event.RepoFullName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			p.logger.Info("repository not tracked, skipping review publication",
				"repo", event.RepoFullName, "pr", event.PRNumber)
			return nil
		}
		return fmt.Errorf("failed to look up repository: %w", err)
	}

	owner, err := p.store.GetUserByID(ctx, repo.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to load repository owner: %w", err)
	}

	token, err := p.cipher.Decrypt(owner.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to decrypt access token: %w", err)
	}

	client := p.newClient(ctx, token)
	p.logger.Info("posting review comment", "repo", event.RepoFullName, "pr", event.PRNumber)
	if err := client.CreateComment(ctx, event.RepoOwner, event.RepoName, event.PRNumber, commentBanner+review); err != nil {
		return fmt.Errorf("failed to post review comment: %w", err)
	}

	record := &core.Review{
		RepositoryID:  repo.ID,
		PRTitle:       event.PRTitle,
		PRNumber:      event.PRNumber,
		PRURL:         event.PRURL,
		ReviewContent: review,
	}
	if err := p.store.SaveReview(ctx, record); err != nil {
		// The comment is already up; nothing to roll back.
		p.logger.Error("review comment posted but record was not saved",
			"repo", event.RepoFullName, "pr", event.PRNumber, "error", err)
		return fmt.Errorf("failed to save review record: %w", err)
	}

	p.logger.Info("review published", "repo", event.RepoFullName, "pr", event.PRNumber, "review_id", record.ID)
	return nil
}
