package core

import "time"

// Review represents a single completed code review stored in the database.
// A record is written once per successful pipeline run and never mutated.
type Review struct {
	ID            int64     `db:"id"`
	RepositoryID  int64     `db:"repository_id"`
	PRTitle       string    `db:"pr_title"`
	PRNumber      int       `db:"pr_number"`
	PRURL         string    `db:"pr_url"`
	ReviewContent string    `db:"review_content"`
	CreatedAt     time.Time `db:"created_at"`
}
