package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sownmark/internal/models"
)

const (
	BlogSlugConstraint = "blogs_slug_key"

	blogColumns = `id, title, slug, excerpt, content, category, image, author, author_bio, status,
		read_time, tags, is_featured, likes, shares, comments, meta_description,
		created_at, updated_at, published_at`
)

type BlogRepositoryImpl struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) *BlogRepositoryImpl {
	return &BlogRepositoryImpl{db: db}
}

func (r *BlogRepositoryImpl) Create(ctx context.Context, blog *models.Blog) error {
	// a nil pq.StringArray is written as NULL
	if blog.Category == nil {
		blog.Category = pq.StringArray{}
	}
	if blog.Tags == nil {
		blog.Tags = pq.StringArray{}
	}

	query, args, err := r.db.BindNamed(`
		INSERT INTO blogs
		(title, slug, excerpt, content, category, image, author, author_bio, status,
		 read_time, tags, is_featured, meta_description, published_at)
		VALUES
		(:title, :slug, :excerpt, :content, :category, :image, :author, :author_bio, :status,
		 :read_time, :tags, :is_featured, :meta_description, :published_at)
		RETURNING id, created_at
	`, blog)
	if err != nil {
		return fmt.Errorf("failed to bind blog insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&blog.ID, &blog.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", mapPQError(err))
	}

	return nil
}

func (r *BlogRepositoryImpl) GetAll(ctx context.Context) ([]models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`

	blogs := []models.Blog{}
	err := r.db.SelectContext(ctx, &blogs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get blogs: %w", err)
	}

	return blogs, nil
}

func (r *BlogRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	var blog models.Blog
	err := r.db.GetContext(ctx, &blog, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}

	return &blog, nil
}

func (r *BlogRepositoryImpl) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check blog: %w", err)
	}
	return exists, nil
}

// Update writes only the non-nil fields of upd.
func (r *BlogRepositoryImpl) Update(ctx context.Context, id int64, upd BlogUpdate) error {
	set := map[string]interface{}{
		"updated_at": sq.Expr("NOW()"),
	}

	setString := func(column string, v *string) {
		if v != nil {
			set[column] = *v
		}
	}
	// blank optional text is stored as NULL, as on insert
	setNullable := func(column string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			set[column] = nil
			return
		}
		set[column] = *v
	}
	setString("title", upd.Title)
	setString("slug", upd.Slug)
	setNullable("excerpt", upd.Excerpt)
	setString("content", upd.Content)
	setString("image", upd.Image)
	setString("author", upd.Author)
	setNullable("author_bio", upd.AuthorBio)
	setNullable("meta_description", upd.MetaDescription)

	if upd.Category != nil {
		set["category"] = nonNilArray(*upd.Category)
	}
	if upd.Tags != nil {
		set["tags"] = nonNilArray(*upd.Tags)
	}
	if upd.ReadTime != nil {
		set["read_time"] = *upd.ReadTime
	}
	if upd.IsFeatured != nil {
		set["is_featured"] = *upd.IsFeatured
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
		if *upd.Status == models.BlogStatusPublished {
			set["published_at"] = sq.Expr("COALESCE(published_at, NOW())")
		} else {
			set["published_at"] = nil
		}
	}

	query, args, err := psql.Update("blogs").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build blog update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", mapPQError(err))
	}

	return checkAffected(result)
}

// Delete removes the blog and its comments in one transaction.
func (r *BlogRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE blog_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete blog comments: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete blog: %w", err)
		}

		return checkAffected(result)
	})
}

func (r *BlogRepositoryImpl) IncrementLikes(ctx context.Context, id int64) error {
	return r.increment(ctx, `UPDATE blogs SET likes = likes + 1 WHERE id = $1`, id)
}

func (r *BlogRepositoryImpl) IncrementShares(ctx context.Context, id int64) error {
	return r.increment(ctx, `UPDATE blogs SET shares = shares + 1 WHERE id = $1`, id)
}

func (r *BlogRepositoryImpl) increment(ctx context.Context, query string, id int64) error {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment blog counter: %w", err)
	}

	return checkAffected(result)
}

func nonNilArray(items []string) pq.StringArray {
	if items == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(items)
}
