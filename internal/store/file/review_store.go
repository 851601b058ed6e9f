// Package file stores reviews in a single JSON array on local disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TechHelpSeniors/techhelp-proxy/internal/store"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"go.uber.org/zap"
)

// Ensure ReviewStore implements store.ReviewStore
var _ store.ReviewStore = (*ReviewStore)(nil)

// ReviewStore keeps reviews in one JSON file that is read and rewritten
// wholesale on every append. There is no locking: concurrent appends race and
// the last writer wins.
type ReviewStore struct {
	path string
	log  *zap.SugaredLogger
}

// NewReviewStore creates a store backed by the file at path. The file and its
// directory are created on the first append.
func NewReviewStore(path string) *ReviewStore {
	return &ReviewStore{
		path: path,
		log:  logger.GetLogger().Named("review-file-store"),
	}
}

// Path returns the backing file location.
func (s *ReviewStore) Path() string {
	return s.path
}

// LoadReviews returns the stored reviews. A missing, unreadable or malformed
// file yields an empty slice, never an error. Entries that do not decode as a
// review are skipped here but stay in the file.
func (s *ReviewStore) LoadReviews(_ context.Context) ([]types.Review, error) {
	entries := s.loadEntries()

	reviews := make([]types.Review, 0, len(entries))
	for i, entry := range entries {
		var review types.Review
		if err := json.Unmarshal(entry, &review); err != nil {
			s.log.Warnw("Skipping unreadable review entry", "path", s.path, "index", i, "error", err)
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// AppendReview loads the current entries, appends review and rewrites the
// file. Existing entries are written back untouched.
func (s *ReviewStore) AppendReview(_ context.Context, review *types.Review) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create reviews directory: %w", err)
	}

	encoded, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("failed to encode review: %w", err)
	}
	entries := append(s.loadEntries(), encoded)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reviews: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write reviews file: %w", err)
	}
	return nil
}

// loadEntries reads the file as a JSON array without decoding its elements.
func (s *ReviewStore) loadEntries() []json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnw("Reviews file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warnw("Reviews file malformed, treating as empty", "path", s.path, "error", err)
		return nil
	}
	return entries
}
