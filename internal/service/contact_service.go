package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"sownmark/internal/metrics"
	"sownmark/internal/models"
	"sownmark/internal/repository"
)

type ContactRequest struct {
	Name    string
	Email   string
	Phone   *string
	Subject string
	Message string
}

type ContactList struct {
	Messages []models.ContactMessage `json:"messages"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	Limit    int                     `json:"limit"`
}

type ContactService interface {
	Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, error)
	List(ctx context.Context, status string, page, limit int) (*ContactList, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type contactService struct {
	repo repository.ContactRepository
	log  *logrus.Logger
}

func NewContactService(repo repository.ContactRepository, log *logrus.Logger) ContactService {
	return &contactService{repo: repo, log: log}
}

func (s *contactService) Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   emptyToNil(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  models.ContactStatusNew,
	}

	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return nil, Validation("All required fields must be filled")
	}
	if !validEmail(msg.Email) {
		return nil, Validation("Invalid email format")
	}
	if !oneOf(msg.Subject, models.ContactSubjects) {
		return nil, Validation("Invalid subject selected")
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("contact", "submitted")
	s.log.WithFields(logrus.Fields{"message_id": msg.ID, "subject": msg.Subject}).Info("contact message received")
	return msg, nil
}

func (s *contactService) List(ctx context.Context, status string, page, limit int) (*ContactList, error) {
	status = strings.TrimSpace(status)
	if status != "" && !oneOf(status, models.ContactStatuses) {
		return nil, Validation("Invalid status")
	}

	p := NormalizePage(page, limit)
	messages, total, err := s.repo.List(ctx, repository.ContactFilter{Status: status, Page: p})
	if err != nil {
		return nil, Internal("Internal server error", err)
	}

	return &ContactList{Messages: messages, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id int64, status string) error {
	status = strings.TrimSpace(status)
	if !oneOf(status, models.ContactStatuses) {
		return Validation("Invalid status")
	}

	err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Contact message not found")
		}
		return Internal("Internal server error", err)
	}

	return nil
}
