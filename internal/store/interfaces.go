package store

import (
	"context"

	"github.com/TechHelpSeniors/techhelp-proxy/types"
)

// ReviewStore persists reviews as an append-only, insertion-ordered sequence.
type ReviewStore interface {
	// LoadReviews returns every stored review, oldest first.
	LoadReviews(ctx context.Context) ([]types.Review, error)
	// AppendReview stores review after all existing ones.
	AppendReview(ctx context.Context, review *types.Review) error
}
