package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

const jobApplicationColumns = `id, job_id, full_name, email, phone, resume_url, linkedin_url,
	cover_letter, status, created_at, updated_at`

type jobApplicationRepository struct {
	db *sqlx.DB
}

func NewJobApplicationRepository(db *sqlx.DB) JobApplicationRepository {
	return &jobApplicationRepository{db: db}
}

func (r *jobApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	if app.Status == "" {
		app.Status = models.ApplicationStatusNew
	}

	query, args, err := r.db.BindNamed(`
		INSERT INTO job_applications
		(job_id, full_name, email, phone, resume_url, linkedin_url, cover_letter, status)
		VALUES
		(:job_id, :full_name, :email, :phone, :resume_url, :linkedin_url, :cover_letter, :status)
		RETURNING id, created_at
	`, app)
	if err != nil {
		return fmt.Errorf("failed to bind job application insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		err = mapPQError(err)
		// the job was removed between the existence check and the insert
		if errors.Is(err, ErrForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create job application: %w", err)
	}

	return nil
}

func (r *jobApplicationRepository) ListByJob(ctx context.Context, filter JobApplicationFilter) ([]models.JobApplication, int, error) {
	where := []sq.Sqlizer{sq.Eq{"job_id": filter.JobID}}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	query, args, err := whereAll(psql.Select(jobApplicationColumns).From("job_applications"), where).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(filter.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build job applications query: %w", err)
	}

	apps := []models.JobApplication{}
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list job applications: %w", err)
	}

	countQuery, countArgs, err := whereAll(psql.Select("COUNT(*)").From("job_applications"), where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build job applications count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count job applications: %w", err)
	}

	return apps, total, nil
}

func (r *jobApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE job_applications SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update job application status: %w", err)
	}

	return checkAffected(result)
}
