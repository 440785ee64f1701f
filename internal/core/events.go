// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"

	"github.com/google/go-github/v73/github"
)

// Actions that qualify a pull request event for an automated review.
const (
	ActionOpened   = "opened"
	ActionReopened = "reopened"
)

// PullRequestEvent is a simplified, internal view of a GitHub pull request
// webhook delivery. It carries exactly the fields the review pipeline needs,
// so that downstream code never touches the raw webhook payload.
type PullRequestEvent struct {
	Action string

	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int
	PRTitle  string
	PRURL    string
	DiffURL  string
}

// IsReviewableAction reports whether a pull request action triggers a review.
func IsReviewableAction(action string) bool {
	return action == ActionOpened || action == ActionReopened
}

// ShouldReview reports whether the event's action is one that triggers a review.
func (e *PullRequestEvent) ShouldReview() bool {
	return IsReviewableAction(e.Action)
}

// FromPullRequestEvent transforms a raw GitHub PullRequestEvent into the
// application's internal representation. It acts as an anti-corruption layer,
// validating that the payload carries everything a review run will need before
// any background work is scheduled.
func FromPullRequestEvent(event *github.PullRequestEvent) (*PullRequestEvent, error) {
	repo := event.GetRepo()
	if repo == nil || repo.GetOwner() == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, fmt.Errorf("pull request information is missing from the event")
	}

	prNumber := pr.GetNumber()
	if prNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", prNumber)
	}

	if pr.GetDiffURL() == "" {
		return nil, fmt.Errorf("pull request diff URL is missing from the event")
	}

	return &PullRequestEvent{
		Action:       event.GetAction(),
		RepoOwner:    repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		RepoFullName: repo.GetFullName(),
		PRNumber:     prNumber,
		PRTitle:      pr.GetTitle(),
		PRURL:        pr.GetHTMLURL(),
		DiffURL:      pr.GetDiffURL(),
	}, nil
}
