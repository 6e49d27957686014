package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Counts(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM blogs) AS blogs,
			(SELECT COUNT(*) FROM comments) AS comments,
			(SELECT COUNT(*) FROM contact_messages WHERE status = 'new') AS new_contact_messages,
			(SELECT COUNT(*) FROM newsletter_subscribers WHERE status = 'active') AS active_subscribers,
			(SELECT COUNT(*) FROM digital_marketing_applications) AS marketing_applications,
			(SELECT COUNT(*) FROM jobs WHERE status = 'open') AS open_jobs,
			(SELECT COUNT(*) FROM job_applications) AS job_applications
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	return &stats, nil
}
