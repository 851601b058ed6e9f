package services

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/errors"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/upstream"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"go.uber.org/zap"
)

// APIKeyLoader returns the current upstream API key.
type APIKeyLoader interface {
	LoadAPIKey() (string, error)
}

// Forwarder sends a submission to the upstream API.
type Forwarder interface {
	Submit(ctx context.Context, apiKey string, s *types.Submission) (*upstream.Response, error)
}

// SubmissionService forwards validated form submissions upstream with the
// server-side API key.
type SubmissionService struct {
	keys      APIKeyLoader
	forwarder Forwarder
	metrics   *ProxyMetrics
	log       *zap.SugaredLogger
}

func NewSubmissionService(keys APIKeyLoader, forwarder Forwarder, metrics *ProxyMetrics) *SubmissionService {
	return &SubmissionService{
		keys:      keys,
		forwarder: forwarder,
		metrics:   metrics,
		log:       logger.GetLogger().Named("submission-service"),
	}
}

// Submit loads the API key and forwards s in a single attempt. The upstream
// status and body are returned as-is, whatever the status. Errors are
// *errors.AppError: ConfigurationError when the key is unavailable,
// ForwardingError when the upstream could not be reached.
func (s *SubmissionService) Submit(ctx context.Context, sub *types.Submission) (*upstream.Response, error) {
	encoding := "json"
	if len(sub.NamedAttachments()) > 0 {
		encoding = "multipart"
	}

	apiKey, err := s.keys.LoadAPIKey()
	if err != nil {
		s.metrics.submissions.WithLabelValues(OutcomeConfigError, encoding).Inc()
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.MissingConfiguration(err.Error(), err)
	}

	start := time.Now()
	resp, err := s.forwarder.Submit(ctx, apiKey, sub)
	s.metrics.upstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.submissions.WithLabelValues(OutcomeForwardFailed, encoding).Inc()
		s.log.Errorw("Failed to forward submission",
			"error", err,
			"email", logger.MaskEmail(sub.Email),
			"encoding", encoding)
		return nil, errors.ForwardingFailed(err)
	}

	s.metrics.submissions.WithLabelValues(OutcomeRelayed, encoding).Inc()
	s.metrics.upstreamStatus.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	s.log.Infow("Submission forwarded",
		"status", resp.StatusCode,
		"formPurpose", sub.FormPurpose,
		"email", logger.MaskEmail(sub.Email),
		"phone", logger.MaskPhone(sub.Phone),
		"attachments", len(sub.NamedAttachments()))

	return resp, nil
}
