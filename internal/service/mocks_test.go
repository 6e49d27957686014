package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"sownmark/internal/mail"
	"sownmark/internal/models"
	"sownmark/internal/repository"
)

func newTestLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

// syncDispatcher runs tasks inline so tests can assert on their effects.
type syncDispatcher struct {
	mu    sync.Mutex
	names []string
	errs  []error
}

func (d *syncDispatcher) Dispatch(name string, task mail.Task) bool {
	err := task(context.Background())

	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, name)
	d.errs = append(d.errs, err)
	return true
}

func (d *syncDispatcher) dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.names...)
}

// sequenceCodes hands out fixed codes in order.
type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *sequenceCodes) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[g.next%len(g.codes)]
	g.next++
	return code, nil
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendApplicationConfirmation(ctx context.Context, to, name, referralCode string) error {
	args := m.Called(ctx, to, name, referralCode)
	return args.Error(0)
}

func (m *MockMailer) SendSubscriptionWelcome(ctx context.Context, to string) error {
	args := m.Called(ctx, to)
	return args.Error(0)
}

func (m *MockMailer) SendUnsubscriptionConfirmation(ctx context.Context, to string) error {
	args := m.Called(ctx, to)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, fileName, contentType, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type MockMarketingRepository struct {
	mock.Mock
}

func (m *MockMarketingRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarketingRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarketingRepository) Create(ctx context.Context, app *models.MarketingApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockMarketingRepository) List(ctx context.Context, filter repository.MarketingFilter) ([]models.MarketingApplicationView, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.MarketingApplicationView), args.Int(1), args.Error(2)
}

type MockNewsletterRepository struct {
	mock.Mock
}

func (m *MockNewsletterRepository) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsletterSubscriber), args.Error(1)
}

func (m *MockNewsletterRepository) Create(ctx context.Context, sub *models.NewsletterSubscriber) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockNewsletterRepository) Resubscribe(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockNewsletterRepository) Unsubscribe(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *MockBlogRepository) GetAll(ctx context.Context) ([]models.Blog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Blog), args.Error(1)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlogRepository) Update(ctx context.Context, id int64, upd repository.BlogUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockBlogRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogRepository) IncrementLikes(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogRepository) IncrementShares(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByBlogID(ctx context.Context, blogID int64) ([]models.Comment, error) {
	args := m.Called(ctx, blogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, blogID, commentID int64) error {
	args := m.Called(ctx, blogID, commentID)
	return args.Error(0)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, filter repository.JobFilter) ([]models.Job, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Job), args.Int(1), args.Error(2)
}

type MockJobApplicationRepository struct {
	mock.Mock
}

func (m *MockJobApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockJobApplicationRepository) ListByJob(ctx context.Context, filter repository.JobApplicationFilter) ([]models.JobApplication, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.JobApplication), args.Int(1), args.Error(2)
}

func (m *MockJobApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockContactRepository) List(ctx context.Context, filter repository.ContactFilter) ([]models.ContactMessage, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.ContactMessage), args.Int(1), args.Error(2)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) CreateAdmin(ctx context.Context, admin *models.Admin, password string) error {
	args := m.Called(ctx, admin, password)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminRepository) VerifyPassword(ctx context.Context, username, password string) (*models.Admin, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Counts(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}
