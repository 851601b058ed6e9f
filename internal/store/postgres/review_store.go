// Package postgres stores reviews in a PostgreSQL table. It is selected with
// REVIEWS_BACKEND=postgres and keeps the same append-only contract as the
// file store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/internal/store"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ensure ReviewStore implements store.ReviewStore
var _ store.ReviewStore = (*ReviewStore)(nil)

// DBTX is the subset of *pgxpool.Pool the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const createReviewsTable = `CREATE TABLE IF NOT EXISTS reviews (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	rating     SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	body       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const insertReview = `INSERT INTO reviews (name, rating, body, created_at) VALUES ($1, $2, $3, $4)`

const selectReviews = `SELECT name, rating, body, created_at FROM reviews ORDER BY id`

type ReviewStore struct {
	db DBTX
}

func NewReviewStore(db DBTX) *ReviewStore {
	return &ReviewStore{db: db}
}

// EnsureSchema creates the reviews table when it does not exist yet.
func (s *ReviewStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createReviewsTable); err != nil {
		return fmt.Errorf("failed to create reviews table: %w", err)
	}
	return nil
}

// LoadReviews returns all reviews in insertion order.
func (s *ReviewStore) LoadReviews(ctx context.Context) ([]types.Review, error) {
	rows, err := s.db.Query(ctx, selectReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []types.Review{}
	for rows.Next() {
		var (
			r         types.Review
			createdAt time.Time
		)
		if err := rows.Scan(&r.Name, &r.Rating, &r.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		r.Date = createdAt.UTC().Format(types.ReviewDateLayout)
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration for reviews: %w", err)
	}
	return reviews, nil
}

// AppendReview inserts review. Its Date must use types.ReviewDateLayout.
func (s *ReviewStore) AppendReview(ctx context.Context, review *types.Review) error {
	createdAt, err := time.Parse(types.ReviewDateLayout, review.Date)
	if err != nil {
		return fmt.Errorf("invalid review date %q: %w", review.Date, err)
	}

	if _, err := s.db.Exec(ctx, insertReview, review.Name, review.Rating, review.Text, createdAt); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}
