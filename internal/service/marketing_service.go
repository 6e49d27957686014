package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/sirupsen/logrus"

	"sownmark/internal/config"
	"sownmark/internal/mail"
	"sownmark/internal/metrics"
	"sownmark/internal/models"
	"sownmark/internal/repository"
)

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrReferralCodeExhausted means every attempt produced a code already in use.
var ErrReferralCodeExhausted = errors.New("referral code attempts exhausted")

// Dispatcher runs best-effort side effects in the background; *mail.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(name string, task mail.Task) bool
}

type CodeGenerator interface {
	Generate() (string, error)
}

type randomCodeGenerator struct {
	length int
}

func NewCodeGenerator(length int) CodeGenerator {
	if length <= 0 {
		length = 8
	}
	return &randomCodeGenerator{length: length}
}

func (g *randomCodeGenerator) Generate() (string, error) {
	size := big.NewInt(int64(len(referralAlphabet)))

	var sb strings.Builder
	sb.Grow(g.length)
	for i := 0; i < g.length; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		sb.WriteByte(referralAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

type ApplyRequest struct {
	Name         string
	Email        string
	Phone        string
	ReferralCode string
}

type ApplicationList struct {
	Applications []models.MarketingApplicationView `json:"applications"`
	Total        int                               `json:"total"`
	Page         int                               `json:"page"`
	Limit        int                               `json:"limit"`
}

type MarketingService interface {
	Apply(ctx context.Context, req ApplyRequest) (*models.MarketingApplication, error)
	ListApplications(ctx context.Context, page, limit, minReferrals int) (*ApplicationList, error)
}

type marketingService struct {
	repo        repository.MarketingRepository
	codes       CodeGenerator
	mailer      mail.Mailer
	dispatcher  Dispatcher
	maxAttempts int
	log         *logrus.Logger
}

func NewMarketingService(repo repository.MarketingRepository, codes CodeGenerator, mailer mail.Mailer,
	dispatcher Dispatcher, cfg config.Referral, log *logrus.Logger) MarketingService {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10
	}

	return &marketingService{
		repo:        repo,
		codes:       codes,
		mailer:      mailer,
		dispatcher:  dispatcher,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

func (s *marketingService) Apply(ctx context.Context, req ApplyRequest) (*models.MarketingApplication, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	referralCode := strings.TrimSpace(req.ReferralCode)

	// check input
	if name == "" || email == "" || phone == "" {
		return nil, Validation("Name, email, and phone are required")
	}
	if !validEmail(email) {
		return nil, Validation("Invalid email format")
	}
	if !validPhone(phone) {
		return nil, Validation("Invalid phone number")
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, Internal("Server error. Please try again later.", err)
	}
	if exists {
		return nil, Conflict("Application with this email already exists")
	}

	var referredBy *string
	if referralCode != "" {
		found, err := s.repo.ReferralCodeExists(ctx, referralCode)
		if err != nil {
			return nil, Internal("Server error. Please try again later.", err)
		}
		if !found {
			return nil, Validation("Invalid referral code")
		}
		referredBy = &referralCode
	}

	app := &models.MarketingApplication{
		Name:       name,
		Email:      email,
		Phone:      phone,
		ReferredBy: referredBy,
	}

	attempts, err := s.insertWithUniqueCode(ctx, app)
	if err != nil {
		return nil, err
	}

	metrics.RecordReferralAttempts(attempts)
	metrics.RecordWorkflow("marketing", "applied")
	s.log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"referred":       referredBy != nil,
		"attempts":       attempts,
	}).Info("marketing application created")

	code := app.ReferralCode
	s.dispatcher.Dispatch("application_confirmation", func(ctx context.Context) error {
		return s.mailer.SendApplicationConfirmation(ctx, email, name, code)
	})

	return app, nil
}

// insertWithUniqueCode draws codes until one is free and the insert succeeds.
// A unique violation on the code counts as a collision; one on the email is a conflict.
func (s *marketingService) insertWithUniqueCode(ctx context.Context, app *models.MarketingApplication) (int, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return attempt, Internal("Server error. Please try again later.", err)
		}

		taken, err := s.repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return attempt, Internal("Server error. Please try again later.", err)
		}
		if taken {
			continue
		}

		app.ReferralCode = code
		err = s.repo.Create(ctx, app)
		switch {
		case err == nil:
			return attempt, nil
		case repository.IsDuplicate(err, repository.MarketingReferralCodeConstraint):
			continue
		case repository.IsDuplicate(err, repository.MarketingEmailConstraint):
			return attempt, Conflict("Application with this email already exists")
		case errors.Is(err, repository.ErrNotFound):
			return attempt, Validation("Invalid referral code")
		default:
			return attempt, Internal("Server error. Please try again later.", err)
		}
	}

	s.log.WithField("attempts", s.maxAttempts).Error("could not issue a unique referral code")
	return s.maxAttempts, Internal("Server error. Please try again later.", ErrReferralCodeExhausted)
}

func (s *marketingService) ListApplications(ctx context.Context, page, limit, minReferrals int) (*ApplicationList, error) {
	if minReferrals < 0 {
		return nil, Validation("minReferrals must not be negative")
	}

	p := NormalizePage(page, limit)
	apps, total, err := s.repo.List(ctx, repository.MarketingFilter{MinReferrals: minReferrals, Page: p})
	if err != nil {
		return nil, Internal("Internal server error", err)
	}

	return &ApplicationList{Applications: apps, Total: total, Page: p.Page, Limit: p.Limit}, nil
}
