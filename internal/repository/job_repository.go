package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

const jobColumns = `id, title, department, job_type, location, experience_level, summary,
	responsibilities, qualifications, preferred_skills, compensation, timezone, status,
	created_at, updated_at, expiry_date`

type JobRepositoryImpl struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepositoryImpl {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *models.Job) error {
	if job.Status == "" {
		job.Status = models.JobStatusOpen
	}
	job.Responsibilities = nonNilArray(job.Responsibilities)
	job.Qualifications = nonNilArray(job.Qualifications)

	query, args, err := r.db.BindNamed(`
		INSERT INTO jobs
		(title, department, job_type, location, experience_level, summary,
		 responsibilities, qualifications, preferred_skills, compensation, timezone, status, expiry_date)
		VALUES
		(:title, :department, :job_type, :location, :experience_level, :summary,
		 :responsibilities, :qualifications, :preferred_skills, :compensation, :timezone, :status, :expiry_date)
		RETURNING id, created_at, updated_at
	`, job)
	if err != nil {
		return fmt.Errorf("failed to bind job insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Update replaces every editable column of the job.
func (r *JobRepositoryImpl) Update(ctx context.Context, job *models.Job) error {
	job.Responsibilities = nonNilArray(job.Responsibilities)
	job.Qualifications = nonNilArray(job.Qualifications)

	query, args, err := r.db.BindNamed(`
		UPDATE jobs SET
			title = :title,
			department = :department,
			job_type = :job_type,
			location = :location,
			experience_level = :experience_level,
			summary = :summary,
			responsibilities = :responsibilities,
			qualifications = :qualifications,
			preferred_skills = :preferred_skills,
			compensation = :compensation,
			timezone = :timezone,
			status = :status,
			expiry_date = :expiry_date,
			updated_at = NOW()
		WHERE id = :id
		RETURNING updated_at
	`, job)
	if err != nil {
		return fmt.Errorf("failed to bind job update: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&job.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update job: %w", err)
	}

	return nil
}

func (r *JobRepositoryImpl) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	return checkAffected(result)
}

func (r *JobRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	var job models.Job

	err := r.db.GetContext(ctx, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (r *JobRepositoryImpl) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check job: %w", err)
	}
	return exists, nil
}

// List hides closed jobs unless a status is asked for explicitly.
func (r *JobRepositoryImpl) List(ctx context.Context, filter JobFilter) ([]models.Job, int, error) {
	var where []sq.Sqlizer
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	} else {
		where = append(where, sq.NotEq{"status": models.JobStatusClosed})
	}
	if filter.Department != "" {
		where = append(where, sq.Eq{"department": filter.Department})
	}
	if filter.Location != "" {
		where = append(where, sq.Eq{"location": filter.Location})
	}
	if filter.JobType != "" {
		where = append(where, sq.Eq{"job_type": filter.JobType})
	}

	query, args, err := whereAll(psql.Select(jobColumns).From("jobs"), where).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(filter.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build jobs query: %w", err)
	}

	jobs := []models.Job{}
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	countQuery, countArgs, err := whereAll(psql.Select("COUNT(*)").From("jobs"), where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build jobs count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return jobs, total, nil
}
