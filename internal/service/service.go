package service

import (
	"github.com/sirupsen/logrus"

	"sownmark/internal/config"
	"sownmark/internal/mail"
	"sownmark/internal/repository"
	"sownmark/internal/storage"
)

type Service struct {
	Auth       AuthService
	Contact    ContactService
	Blog       BlogService
	Marketing  MarketingService
	Newsletter NewsletterService
	Job        JobService
	Stats      StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage,
	mailer mail.Mailer, dispatcher Dispatcher, log *logrus.Logger) *Service {
	codes := NewCodeGenerator(cfg.Referral.CodeLength)

	return &Service{
		Auth:       NewAuthService(rep.Admin, cfg, log),
		Contact:    NewContactService(rep.Contact, log),
		Blog:       NewBlogService(rep.Blog, rep.Comment, storage, cfg.Server.MaxUploadSize, log),
		Marketing:  NewMarketingService(rep.Marketing, codes, mailer, dispatcher, cfg.Referral, log),
		Newsletter: NewNewsletterService(rep.Newsletter, mailer, dispatcher, log),
		Job:        NewJobService(rep.Job, rep.JobApplication, log),
		Stats:      NewStatsService(rep.Stats),
	}
}
