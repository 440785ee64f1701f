// Package storage provides database access for users, monitored repositories,
// and review records.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/codeguardian-ai/codeguardian/internal/core"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = errors.New("not found")

// User is an account that signed in through the GitHub OAuth flow.
// AccessToken is stored encrypted; see the crypto package.
type User struct {
	ID          int64          `db:"id"`
	GitHubID    string         `db:"github_id"`
	Username    string         `db:"username"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	AccessToken string         `db:"access_token"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Repository is a GitHub repository a user has activated for automated reviews.
// The review pipeline only reads these rows; activation and deactivation are
// handled by the dashboard API.
type Repository struct {
	ID           int64          `db:"id"`
	GitHubRepoID string         `db:"github_repo_id"`
	FullName     string         `db:"full_name"`
	OwnerID      int64          `db:"owner_id"`
	WebhookID    sql.NullString `db:"webhook_id"`
	IsActive     bool           `db:"is_active"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Store defines the database operations used by the review pipeline and the
// dashboard collaborators.
type Store interface {
	// GetRepositoryByFullName finds a monitored repository by its
	// "owner/name" identifier. Returns ErrNotFound if the repository is not
	// tracked.
	GetRepositoryByFullName(ctx context.Context, fullName string) (*Repository, error)

	// GetUserByID loads the user that owns a monitored repository.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// SaveReview inserts a new review record. The record's CreatedAt is set
	// by the database.
	SaveReview(ctx context.Context, review *core.Review) error

	// ListReviewsForRepository returns all reviews for a repository, newest
	// first.
	ListReviewsForRepository(ctx context.Context, repositoryID int64) ([]core.Review, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a Store backed by Postgres.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) GetRepositoryByFullName(ctx context.Context, fullName string) (*Repository, error) {
	const query = `
		SELECT id, github_repo_id, full_name, owner_id, webhook_id, is_active, created_at
		FROM repositories
		WHERE full_name = $1
		ORDER BY created_at
		LIMIT 1`

	var repo Repository
	if err := s.db.GetContext(ctx, &repo, query, fullName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repository %q: %w", fullName, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query repository %q: %w", fullName, err)
	}
	return &repo, nil
}

func (s *postgresStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	const query = `
		SELECT id, github_id, username, avatar_url, access_token, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user %d: %w", id, err)
	}
	return &user, nil
}

func (s *postgresStore) SaveReview(ctx context.Context, review *core.Review) error {
	const query = `
		INSERT INTO reviews (repository_id, pr_title, pr_number, pr_url, review_content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		review.RepositoryID, review.PRTitle, review.PRNumber, review.PRURL, review.ReviewContent)
	if err := row.Scan(&review.ID, &review.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert review for PR #%d: %w", review.PRNumber, err)
	}
	return nil
}

func (s *postgresStore) ListReviewsForRepository(ctx context.Context, repositoryID int64) ([]core.Review, error) {
	const query = `
		SELECT id, repository_id, pr_title, pr_number, pr_url, review_content, created_at
		FROM reviews
		WHERE repository_id = $1
		ORDER BY created_at DESC`

	var reviews []core.Review
	if err := s.db.SelectContext(ctx, &reviews, query, repositoryID); err != nil {
		return nil, fmt.Errorf("failed to list reviews for repository %d: %w", repositoryID, err)
	}
	return reviews, nil
}
