package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockPool(t *testing.T) (pgxmock.PgxPoolIface, *ReviewStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewReviewStore(mock)
}

func TestReviewStore_EnsureSchema(t *testing.T) {
	mock, s := setupMockPool(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS reviews").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewStore_AppendReview(t *testing.T) {
	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		mock, s := setupMockPool(t)
		review := &types.Review{Name: "Ana", Rating: 5, Text: "Great help", Date: "2026-03-04T05:06:07Z"}

		mock.ExpectExec(regexp.QuoteMeta(insertReview)).
			WithArgs("Ana", 5, "Great help", time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, s.AppendReview(ctx, review))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid date never reaches the database", func(t *testing.T) {
		mock, s := setupMockPool(t)

		err := s.AppendReview(ctx, &types.Review{Name: "Ana", Rating: 5, Text: "x", Date: "yesterday"})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("check constraint violation", func(t *testing.T) {
		mock, s := setupMockPool(t)

		mock.ExpectExec(regexp.QuoteMeta(insertReview)).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23514"})

		err := s.AppendReview(ctx, &types.Review{Name: "Ana", Rating: 9, Text: "x", Date: "2026-03-04T05:06:07Z"})

		require.Error(t, err)
		var pgErr *pgconn.PgError
		assert.True(t, errors.As(err, &pgErr))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewStore_LoadReviews(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rows in order with formatted dates", func(t *testing.T) {
		mock, s := setupMockPool(t)

		rows := pgxmock.NewRows([]string{"name", "rating", "body", "created_at"}).
			AddRow("Ana", 5, "Great help", time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)).
			AddRow("Bob", 4, "Patient and kind", time.Date(2026, 3, 5, 1, 0, 0, 0, time.FixedZone("EST", -5*3600)))
		mock.ExpectQuery(regexp.QuoteMeta(selectReviews)).WillReturnRows(rows)

		reviews, err := s.LoadReviews(ctx)

		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, types.Review{Name: "Ana", Rating: 5, Text: "Great help", Date: "2026-03-04T05:06:07Z"}, reviews[0])
		assert.Equal(t, "2026-03-05T06:00:00Z", reviews[1].Date)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table", func(t *testing.T) {
		mock, s := setupMockPool(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectReviews)).
			WillReturnRows(pgxmock.NewRows([]string{"name", "rating", "body", "created_at"}))

		reviews, err := s.LoadReviews(ctx)

		require.NoError(t, err)
		assert.NotNil(t, reviews)
		assert.Empty(t, reviews)
	})

	t.Run("query error", func(t *testing.T) {
		mock, s := setupMockPool(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectReviews)).WillReturnError(errors.New("connection reset"))

		reviews, err := s.LoadReviews(ctx)

		assert.Error(t, err)
		assert.Nil(t, reviews)
	})
}
