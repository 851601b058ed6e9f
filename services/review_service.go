package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/errors"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/store"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"go.uber.org/zap"
)

const (
	MsgMissingName   = "Please enter your name."
	MsgMissingReview = "Please enter your review."
	MsgReviewSaved   = "Thank you for your review!"
)

type ReviewService struct {
	store   store.ReviewStore
	metrics *ProxyMetrics
	now     func() time.Time
	log     *zap.SugaredLogger
}

func NewReviewService(reviewStore store.ReviewStore, metrics *ProxyMetrics) *ReviewService {
	return &ReviewService{
		store:   reviewStore,
		metrics: metrics,
		now:     time.Now,
		log:     logger.GetLogger().Named("review-service"),
	}
}

// NormalizeRating parses a submitted rating. Anything missing, unparsable or
// outside 1..5 becomes DefaultRating; out-of-range values are replaced, not
// clamped to the nearest bound.
func NormalizeRating(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.DefaultRating
	}
	r, err := strconv.Atoi(raw)
	if err != nil || r < 1 || r > 5 {
		return types.DefaultRating
	}
	return r
}

// SaveReview validates and stores a review dated now (UTC).
func (s *ReviewService) SaveReview(ctx context.Context, name, rating, text string) (*types.Review, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)

	if name == "" {
		s.metrics.reviews.WithLabelValues(OutcomeRejected).Inc()
		return nil, errors.ValidationFailed(MsgMissingName)
	}
	if text == "" {
		s.metrics.reviews.WithLabelValues(OutcomeRejected).Inc()
		return nil, errors.ValidationFailed(MsgMissingReview)
	}

	review := &types.Review{
		Name:   name,
		Rating: NormalizeRating(rating),
		Text:   text,
		Date:   s.now().UTC().Format(types.ReviewDateLayout),
	}

	if err := s.store.AppendReview(ctx, review); err != nil {
		s.metrics.reviews.WithLabelValues(OutcomeStorageFailed).Inc()
		s.log.Errorw("Failed to save review", "error", err)
		return nil, errors.StorageFailed("Failed to save review", err)
	}

	s.metrics.reviews.WithLabelValues(OutcomeSaved).Inc()
	s.log.Infow("Review saved", "rating", review.Rating, "date", review.Date)
	return review, nil
}

// ListReviews returns every stored review, oldest first.
func (s *ReviewService) ListReviews(ctx context.Context) ([]types.Review, error) {
	reviews, err := s.store.LoadReviews(ctx)
	if err != nil {
		s.log.Errorw("Failed to load reviews", "error", err)
		appErr := errors.New(errors.StorageError, "Failed to load reviews", "")
		appErr.Raw = err
		return nil, appErr
	}
	if reviews == nil {
		reviews = []types.Review{}
	}
	return reviews, nil
}
