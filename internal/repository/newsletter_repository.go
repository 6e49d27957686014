package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

const NewsletterEmailConstraint = "newsletter_subscribers_email_key"

type newsletterRepository struct {
	db *sqlx.DB
}

func NewNewsletterRepository(db *sqlx.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber

	err := r.db.GetContext(ctx, &sub, `
		SELECT id, email, status, subscribed_at, unsubscribed_at
		FROM newsletter_subscribers
		WHERE email = $1
	`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	return &sub, nil
}

func (r *newsletterRepository) Create(ctx context.Context, sub *models.NewsletterSubscriber) error {
	if sub.Status == "" {
		sub.Status = models.SubscriberActive
	}

	query, args, err := r.db.BindNamed(`
		INSERT INTO newsletter_subscribers (email, status)
		VALUES (:email, :status)
		RETURNING id, subscribed_at
	`, sub)
	if err != nil {
		return fmt.Errorf("failed to bind subscriber insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&sub.ID, &sub.SubscribedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", mapPQError(err))
	}

	return nil
}

// Resubscribe only flips an unsubscribed row; ErrNotFound means the row was
// missing or already active.
func (r *newsletterRepository) Resubscribe(ctx context.Context, id int64, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers
		SET status = $1, subscribed_at = $2, unsubscribed_at = NULL
		WHERE id = $3 AND status = $4
	`, models.SubscriberActive, at, id, models.SubscriberUnsubscribed)
	if err != nil {
		return fmt.Errorf("failed to resubscribe: %w", err)
	}

	return checkAffected(result)
}

func (r *newsletterRepository) Unsubscribe(ctx context.Context, id int64, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers
		SET status = $1, unsubscribed_at = $2
		WHERE id = $3 AND status = $4
	`, models.SubscriberUnsubscribed, at, id, models.SubscriberActive)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	return checkAffected(result)
}
