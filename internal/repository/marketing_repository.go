package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

const (
	MarketingEmailConstraint        = "digital_marketing_applications_email_key"
	MarketingReferralCodeConstraint = "digital_marketing_applications_referral_code_key"
)

const referralCountExpr = `(SELECT COUNT(*) FROM digital_marketing_applications r WHERE r.referred_by = a.referral_code)`

type marketingRepository struct {
	db *sqlx.DB
}

func NewMarketingRepository(db *sqlx.DB) MarketingRepository {
	return &marketingRepository{db: db}
}

func (r *marketingRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM digital_marketing_applications WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check application email: %w", err)
	}
	return exists, nil
}

func (r *marketingRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM digital_marketing_applications WHERE referral_code = $1)`, code)
	if err != nil {
		return false, fmt.Errorf("failed to check referral code: %w", err)
	}
	return exists, nil
}

// Create relies on the unique constraints for email and referral code; a
// dangling referred_by surfaces as ErrNotFound.
func (r *marketingRepository) Create(ctx context.Context, app *models.MarketingApplication) error {
	query, args, err := r.db.BindNamed(`
		INSERT INTO digital_marketing_applications (name, email, phone, referral_code, referred_by)
		VALUES (:name, :email, :phone, :referral_code, :referred_by)
		RETURNING id, created_at
	`, app)
	if err != nil {
		return fmt.Errorf("failed to bind application insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		err = mapPQError(err)
		if errors.Is(err, ErrForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

func (r *marketingRepository) List(ctx context.Context, filter MarketingFilter) ([]models.MarketingApplicationView, int, error) {
	var where []sq.Sqlizer
	if filter.MinReferrals > 0 {
		where = append(where, sq.Expr(referralCountExpr+" >= ?", filter.MinReferrals))
	}

	query, args, err := whereAll(
		psql.Select(
			"a.id", "a.name", "a.email", "a.phone", "a.referral_code", "a.referred_by", "a.created_at",
			referralCountExpr+" AS referral_count",
		).From("digital_marketing_applications a"), where).
		OrderBy("a.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(filter.Offset()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build applications query: %w", err)
	}

	apps := []models.MarketingApplicationView{}
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}

	countQuery, countArgs, err := whereAll(
		psql.Select("COUNT(*)").From("digital_marketing_applications a"), where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build applications count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	return apps, total, nil
}
