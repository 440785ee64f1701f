// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// Client defines the GitHub API operations the review pipeline performs on
// behalf of a user.
type Client interface {
	// CreateComment posts an issue comment on a pull request.
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

// ClientFactory builds a Client authenticated with a user's OAuth access
// token. Each pipeline run resolves its own token, so clients are created per
// run rather than shared.
type ClientFactory func(ctx context.Context, token string) Client

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewTokenClient creates a GitHub client authenticated with an OAuth access token.
func NewTokenClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{client: github.NewClient(tc), logger: logger}
}

// CreateComment creates a new comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}
