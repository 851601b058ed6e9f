package handlers

import (
	"context"

	"github.com/TechHelpSeniors/techhelp-proxy/internal/upstream"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
)

// SubmissionServiceInterface forwards a validated submission upstream.
type SubmissionServiceInterface interface {
	Submit(ctx context.Context, sub *types.Submission) (*upstream.Response, error)
}

// ReviewServiceInterface stores and lists reviews.
type ReviewServiceInterface interface {
	SaveReview(ctx context.Context, name, rating, text string) (*types.Review, error)
	ListReviews(ctx context.Context) ([]types.Review, error)
}

// HealthServiceInterface reports dependency health.
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
