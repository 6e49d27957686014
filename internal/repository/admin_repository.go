package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"sownmark/internal/models"
)

const (
	AdminUsernameConstraint = "admins_username_key"
	AdminEmailConstraint    = "admins_email_key"
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknown usernames still pay for one bcrypt comparison
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("sownmark-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) CreateAdmin(ctx context.Context, admin *models.Admin, password string) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.PasswordHash = string(hashedPassword)

	query, args, err := r.db.BindNamed(`
		INSERT INTO admins (username, email, password_hash)
		VALUES (:username, :email, :password_hash)
		RETURNING id, created_at
	`, admin)
	if err != nil {
		return fmt.Errorf("failed to bind admin insert: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", mapPQError(err))
	}

	return nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.getOne(ctx, `SELECT id, username, email, password_hash, created_at FROM admins WHERE username = $1`, username)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.getOne(ctx, `SELECT id, username, email, password_hash, created_at FROM admins WHERE email = $1`, email)
}

func (r *adminRepository) getOne(ctx context.Context, query string, arg string) (*models.Admin, error) {
	var admin models.Admin

	err := r.db.GetContext(ctx, &admin, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}

func (r *adminRepository) VerifyPassword(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := r.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			compareDummy(password)
		}
		return nil, err
	}

	// checking that the password hash is the same
	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidPassword
	}

	return admin, nil
}
