package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

const contactColumns = "id, name, email, phone, subject, message, status, created_at, updated_at"

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.Status == "" {
		msg.Status = models.ContactStatusNew
	}

	query, args, err := r.db.BindNamed(`
		INSERT INTO contact_messages (name, email, phone, subject, message, status)
		VALUES (:name, :email, :phone, :subject, :message, :status)
		RETURNING id, created_at, updated_at
	`, msg)
	if err != nil {
		return fmt.Errorf("failed to bind contact message insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	return nil
}

func (r *contactRepository) List(ctx context.Context, filter ContactFilter) ([]models.ContactMessage, int, error) {
	var where []sq.Sqlizer
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	query, args, err := whereAll(psql.Select(contactColumns).From("contact_messages"), where).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(filter.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build contact messages query: %w", err)
	}

	messages := []models.ContactMessage{}
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}

	countQuery, countArgs, err := whereAll(psql.Select("COUNT(*)").From("contact_messages"), where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build contact messages count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	return messages, total, nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update contact message status: %w", err)
	}

	return checkAffected(result)
}
