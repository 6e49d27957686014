package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sownmark/internal/models"
)

func TestMarketingRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores application", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMarketingRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO digital_marketing_applications")).
			WithArgs("Asha", "asha@example.com", "9876543210", "AB12CD34", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

		app := &models.MarketingApplication{
			Name: "Asha", Email: "asha@example.com", Phone: "9876543210", ReferralCode: "AB12CD34",
		}
		require.NoError(t, repo.Create(ctx, app))
		assert.Equal(t, int64(1), app.ID)
	})

	t.Run("email taken", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMarketingRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO digital_marketing_applications")).
			WillReturnError(&pq.Error{Code: "23505", Constraint: MarketingEmailConstraint})

		err := repo.Create(ctx, &models.MarketingApplication{Email: "asha@example.com"})

		assert.True(t, IsDuplicate(err, MarketingEmailConstraint))
		assert.False(t, IsDuplicate(err, MarketingReferralCodeConstraint))
	})

	t.Run("code collision", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMarketingRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO digital_marketing_applications")).
			WillReturnError(&pq.Error{Code: "23505", Constraint: MarketingReferralCodeConstraint})

		err := repo.Create(ctx, &models.MarketingApplication{Email: "new@example.com"})

		assert.True(t, IsDuplicate(err, MarketingReferralCodeConstraint))
	})

	t.Run("unknown referrer", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMarketingRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO digital_marketing_applications")).
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.Create(ctx, &models.MarketingApplication{Email: "new@example.com"})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMarketingRepository_ReferralCodeExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMarketingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE referral_code = $1")).
		WithArgs("ZZZZ9999").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ReferralCodeExists(context.Background(), "ZZZZ9999")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMarketingRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMarketingRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "referral_code", "referred_by", "created_at", "referral_count",
	}).AddRow(int64(1), "Asha", "asha@example.com", "9876543210", "AB12CD34", nil, time.Now(), 3)

	mock.ExpectQuery(regexp.QuoteMeta("AS referral_count FROM digital_marketing_applications a WHERE")).
		WithArgs(2).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM digital_marketing_applications a WHERE")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	apps, total, err := repo.List(context.Background(), MarketingFilter{MinReferrals: 2, Page: Page{Page: 1, Limit: 10}})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, apps, 1)
	assert.Equal(t, 3, apps[0].ReferralCount)
	assert.Equal(t, "AB12CD34", apps[0].ReferralCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
