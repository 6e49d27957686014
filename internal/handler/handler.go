package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"sownmark/internal/config"
	"sownmark/internal/service"
)

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	HealthCheck() error
}

type Handlers struct {
	AuthService       service.AuthService
	ContactService    service.ContactService
	BlogService       service.BlogService
	MarketingService  service.MarketingService
	NewsletterService service.NewsletterService
	JobService        service.JobService
	StatsService      service.StatsService
	DB                HealthChecker
	Cfg               *config.Config
	Validate          *validator.Validate
	Log               *logrus.Logger
}

func NewHandlers(service *service.Service, db HealthChecker, config *config.Config, log *logrus.Logger) *Handlers {
	return &Handlers{
		AuthService:       service.Auth,
		ContactService:    service.Contact,
		BlogService:       service.Blog,
		MarketingService:  service.Marketing,
		NewsletterService: service.Newsletter,
		JobService:        service.Job,
		StatsService:      service.Stats,
		DB:                db,
		Cfg:               config,
		Validate:          NewValidator(),
		Log:               log,
	}
}

// NewValidator reports field errors under their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (h *Handlers) logger() *logrus.Logger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}
	return h.Log
}
