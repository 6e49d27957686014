package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

type CommentRepositoryImpl struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{db: db}
}

// Create inserts the comment and bumps the parent's counter; both commit or neither does.
func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *models.Comment) error {
	if comment.UserName == "" {
		comment.UserName = models.DefaultCommentAuthor
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query, args, err := tx.BindNamed(`
			INSERT INTO comments (blog_id, user_id, user_name, user_email, content)
			VALUES (:blog_id, :user_id, :user_name, :user_email, :content)
			RETURNING id, created_at
		`, comment)
		if err != nil {
			return fmt.Errorf("failed to bind comment insert: %w", err)
		}

		err = tx.QueryRowxContext(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt)
		if err != nil {
			err = mapPQError(err)
			if errors.Is(err, ErrForeignKeyViolation) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to create comment: %w", err)
		}

		result, err := tx.ExecContext(ctx, `UPDATE blogs SET comments = comments + 1 WHERE id = $1`, comment.BlogID)
		if err != nil {
			return fmt.Errorf("failed to increment comment count: %w", err)
		}

		return checkAffected(result)
	})
}

func (r *CommentRepositoryImpl) GetByBlogID(ctx context.Context, blogID int64) ([]models.Comment, error) {
	query := `
		SELECT id, blog_id, user_id, user_name, user_email, content, created_at, updated_at
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at
	`

	comments := []models.Comment{}
	err := r.db.SelectContext(ctx, &comments, query, blogID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	return comments, nil
}

// Delete is scoped by blog so a comment cannot be removed through another blog's route.
func (r *CommentRepositoryImpl) Delete(ctx context.Context, blogID, commentID int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 AND blog_id = $2`, commentID, blogID)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		if err := checkAffected(result); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE blogs SET comments = GREATEST(comments - 1, 0) WHERE id = $1`, blogID)
		if err != nil {
			return fmt.Errorf("failed to decrement comment count: %w", err)
		}

		return nil
	})
}
