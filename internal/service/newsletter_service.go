package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sownmark/internal/mail"
	"sownmark/internal/metrics"
	"sownmark/internal/models"
	"sownmark/internal/repository"
)

// SubscribeOutcome tells a first subscription apart from a reactivated one.
type SubscribeOutcome int

const (
	Subscribed SubscribeOutcome = iota + 1
	Resubscribed
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (SubscribeOutcome, error)
	Unsubscribe(ctx context.Context, email string) error
}

type newsletterService struct {
	repo       repository.NewsletterRepository
	mailer     mail.Mailer
	dispatcher Dispatcher
	log        *logrus.Logger
	now        func() time.Time
}

func NewNewsletterService(repo repository.NewsletterRepository, mailer mail.Mailer, dispatcher Dispatcher,
	log *logrus.Logger) NewsletterService {
	return &newsletterService{
		repo:       repo,
		mailer:     mailer,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

func checkNewsletterEmail(email string) error {
	if email == "" {
		return Validation("Email is required")
	}
	if !validEmail(email) {
		return Validation("Invalid email format")
	}
	return nil
}

// Subscribe moves an email to active. A new address gets a new row; an
// unsubscribed one reuses its row.
func (s *newsletterService) Subscribe(ctx context.Context, email string) (SubscribeOutcome, error) {
	email = strings.TrimSpace(email)
	if err := checkNewsletterEmail(email); err != nil {
		return 0, err
	}

	sub, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s.subscribeNew(ctx, email)
	case err != nil:
		return 0, Internal("Internal server error", err)
	case sub.Status == models.SubscriberActive:
		return 0, Validation("Email is already subscribed")
	}

	err = s.repo.Resubscribe(ctx, sub.ID, s.now())
	if err != nil {
		// another request reactivated the row first
		if errors.Is(err, repository.ErrNotFound) {
			return 0, Validation("Email is already subscribed")
		}
		return 0, Internal("Internal server error", err)
	}

	s.afterSubscribe(email, "resubscribed")
	return Resubscribed, nil
}

func (s *newsletterService) subscribeNew(ctx context.Context, email string) (SubscribeOutcome, error) {
	sub := &models.NewsletterSubscriber{Email: email, Status: models.SubscriberActive}

	err := s.repo.Create(ctx, sub)
	if err != nil {
		if repository.IsDuplicate(err, repository.NewsletterEmailConstraint) {
			return 0, Validation("Email is already subscribed")
		}
		return 0, Internal("Internal server error", err)
	}

	s.afterSubscribe(email, "subscribed")
	return Subscribed, nil
}

func (s *newsletterService) afterSubscribe(email, outcome string) {
	metrics.RecordWorkflow("newsletter", outcome)
	s.log.WithField("outcome", outcome).Info("newsletter subscription active")

	s.dispatcher.Dispatch("subscription_welcome", func(ctx context.Context) error {
		return s.mailer.SendSubscriptionWelcome(ctx, email)
	})
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := checkNewsletterEmail(email); err != nil {
		return err
	}

	sub, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Email not found")
		}
		return Internal("Internal server error", err)
	}
	if sub.Status == models.SubscriberUnsubscribed {
		return Validation("Email is already unsubscribed")
	}

	err = s.repo.Unsubscribe(ctx, sub.ID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Validation("Email is already unsubscribed")
		}
		return Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("newsletter", "unsubscribed")
	s.log.Info("newsletter subscription cancelled")

	s.dispatcher.Dispatch("unsubscription_confirmation", func(ctx context.Context) error {
		return s.mailer.SendUnsubscriptionConfirmation(ctx, email)
	})
	return nil
}
