package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sownmark/internal/models"
	"sownmark/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req service.SignupRequest) (*models.Admin, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.AdminClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminClaims), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, req service.ContactRequest) (*models.ContactMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, status string, page, limit int) (*service.ContactList, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContactList), args.Error(1)
}

func (m *MockContactService) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) Create(ctx context.Context, req service.CreateBlogRequest) (*models.Blog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) Update(ctx context.Context, id int64, req service.UpdateBlogRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockBlogService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogService) GetAll(ctx context.Context) ([]models.Blog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Blog), args.Error(1)
}

func (m *MockBlogService) GetByID(ctx context.Context, id int64) (*models.BlogWithComments, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogWithComments), args.Error(1)
}

func (m *MockBlogService) IncrementLikes(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogService) IncrementShares(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogService) CreateComment(ctx context.Context, blogID int64, req service.CommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, blogID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockBlogService) DeleteComment(ctx context.Context, blogID, commentID int64) error {
	args := m.Called(ctx, blogID, commentID)
	return args.Error(0)
}

func (m *MockBlogService) GetComments(ctx context.Context, blogID int64) ([]models.Comment, error) {
	args := m.Called(ctx, blogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

type MockMarketingService struct {
	mock.Mock
}

func (m *MockMarketingService) Apply(ctx context.Context, req service.ApplyRequest) (*models.MarketingApplication, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketingApplication), args.Error(1)
}

func (m *MockMarketingService) ListApplications(ctx context.Context, page, limit, minReferrals int) (*service.ApplicationList, error) {
	args := m.Called(ctx, page, limit, minReferrals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApplicationList), args.Error(1)
}

type MockNewsletterService struct {
	mock.Mock
}

func (m *MockNewsletterService) Subscribe(ctx context.Context, email string) (service.SubscribeOutcome, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(service.SubscribeOutcome), args.Error(1)
}

func (m *MockNewsletterService) Unsubscribe(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Create(ctx context.Context, req service.JobRequest) (*models.Job, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) Update(ctx context.Context, id int64, req service.JobRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *MockJobService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobService) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobService) List(ctx context.Context, q service.JobQuery) (*service.JobList, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JobList), args.Error(1)
}

func (m *MockJobService) Apply(ctx context.Context, req service.JobApplicationRequest) (*models.JobApplication, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobApplication), args.Error(1)
}

func (m *MockJobService) ListApplications(ctx context.Context, jobID int64, status string, page, limit int) (*service.JobApplicationList, error) {
	args := m.Called(ctx, jobID, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JobApplicationList), args.Error(1)
}

func (m *MockJobService) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Counts(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck() error {
	args := m.Called()
	return args.Error(0)
}
