//go:build integration
// +build integration

package repository_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"sownmark/internal/config"
	"sownmark/internal/database"
	"sownmark/internal/models"
	"sownmark/internal/repository"
)

// setupTestDB starts PostgreSQL, applies the embedded migrations and returns a pool.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sownmark"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DB{
		DbHOST:     host,
		DbPORT:     port.Port(),
		DbUSER:     "testuser",
		DbPASSWORD: "testpass",
		DbNAME:     "sownmark",
		DbSSLMODE:  "disable",
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	require.NoError(t, database.Migrate(cfg, log))

	db, err := sqlx.Connect("postgres", database.DSN(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestIntegration_Repositories(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	t.Run("comment counter tracks inserts and deletes", func(t *testing.T) {
		blog := &models.Blog{Title: "Counter", Slug: "counter", Content: "c", Author: "Ann", Status: models.BlogStatusDraft}
		require.NoError(t, repo.Blog.Create(ctx, blog))

		first := &models.Comment{BlogID: blog.ID, Content: "one"}
		require.NoError(t, repo.Comment.Create(ctx, first))
		require.NoError(t, repo.Comment.Create(ctx, &models.Comment{BlogID: blog.ID, Content: "two"}))

		got, err := repo.Blog.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Comments)

		require.NoError(t, repo.Comment.Delete(ctx, blog.ID, first.ID))
		got, err = repo.Blog.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Comments)

		assert.ErrorIs(t, repo.Comment.Create(ctx, &models.Comment{BlogID: 999999, Content: "x"}), repository.ErrNotFound)
	})

	t.Run("publication time survives republish", func(t *testing.T) {
		blog := &models.Blog{Title: "Pub", Slug: "pub", Content: "c", Author: "Ann", Status: models.BlogStatusDraft}
		require.NoError(t, repo.Blog.Create(ctx, blog))

		published := models.BlogStatusPublished
		require.NoError(t, repo.Blog.Update(ctx, blog.ID, repository.BlogUpdate{Status: &published}))
		first, err := repo.Blog.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		require.NotNil(t, first.PublishedAt)

		require.NoError(t, repo.Blog.Update(ctx, blog.ID, repository.BlogUpdate{Status: &published}))
		second, err := repo.Blog.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.True(t, first.PublishedAt.Equal(*second.PublishedAt))

		draft := models.BlogStatusDraft
		require.NoError(t, repo.Blog.Update(ctx, blog.ID, repository.BlogUpdate{Status: &draft}))
		third, err := repo.Blog.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Nil(t, third.PublishedAt)
	})

	t.Run("concurrent likes are not lost", func(t *testing.T) {
		blog := &models.Blog{Title: "Likes", Slug: "likes", Content: "c", Author: "Ann", Status: models.BlogStatusPublished}
		require.NoError(t, repo.Blog.Create(ctx, blog))

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, repo.Blog.IncrementLikes(ctx, blog.ID))
			}()
		}
		wg.Wait()

		got, err := repo.Blog.GetByID(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, got.Likes)
	})

	t.Run("one application per email", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = repo.Marketing.Create(ctx, &models.MarketingApplication{
					Name:         "Asha",
					Email:        "race@example.com",
					Phone:        "9876543210",
					ReferralCode: "RACE000" + string(rune('A'+i)),
				})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, repository.IsDuplicate(err, repository.MarketingEmailConstraint))
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("referral count", func(t *testing.T) {
		referrer := &models.MarketingApplication{Name: "R", Email: "ref@example.com", Phone: "9123456789", ReferralCode: "REFERRER"}
		require.NoError(t, repo.Marketing.Create(ctx, referrer))

		code := referrer.ReferralCode
		for i, email := range []string{"f1@example.com", "f2@example.com"} {
			require.NoError(t, repo.Marketing.Create(ctx, &models.MarketingApplication{
				Name: "F", Email: email, Phone: "9123456789",
				ReferralCode: "FRIEND0" + string(rune('1'+i)), ReferredBy: &code,
			}))
		}

		apps, total, err := repo.Marketing.List(ctx, repository.MarketingFilter{MinReferrals: 2, Page: repository.Page{Page: 1, Limit: 10}})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, apps, 1)
		assert.Equal(t, 2, apps[0].ReferralCount)
	})
}
