package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sownmark/internal/models"
)

// psql renders $n placeholders for every builder-made query.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func whereAll(b sq.SelectBuilder, conds []sq.Sqlizer) sq.SelectBuilder {
	for _, c := range conds {
		b = b.Where(c)
	}
	return b
}

// Page is a validated page/limit pair.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() uint64 {
	if p.Page < 1 {
		return 0
	}
	return uint64((p.Page - 1) * p.Limit)
}

type ContactFilter struct {
	Status string
	Page
}

type MarketingFilter struct {
	MinReferrals int
	Page
}

type JobFilter struct {
	Department string
	Location   string
	JobType    string
	Status     string
	Page
}

type JobApplicationFilter struct {
	JobID  int64
	Status string
	Page
}

// BlogUpdate holds the columns a partial update writes; nil means "leave as is".
// An empty Excerpt, AuthorBio or MetaDescription clears the column to NULL.
type BlogUpdate struct {
	Title           *string
	Slug            *string
	Excerpt         *string
	Content         *string
	Category        *[]string
	Image           *string
	Author          *string
	AuthorBio       *string
	Status          *string
	ReadTime        *int
	Tags            *[]string
	IsFeatured      *bool
	MetaDescription *string
}

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Admin, password string) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	VerifyPassword(ctx context.Context, username, password string) (*models.Admin, error)
}

type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context, filter ContactFilter) ([]models.ContactMessage, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetAll(ctx context.Context) ([]models.Blog, error)
	GetByID(ctx context.Context, id int64) (*models.Blog, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id int64, upd BlogUpdate) error
	Delete(ctx context.Context, id int64) error
	IncrementLikes(ctx context.Context, id int64) error
	IncrementShares(ctx context.Context, id int64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByBlogID(ctx context.Context, blogID int64) ([]models.Comment, error)
	Delete(ctx context.Context, blogID, commentID int64) error
}

type MarketingRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, app *models.MarketingApplication) error
	List(ctx context.Context, filter MarketingFilter) ([]models.MarketingApplicationView, int, error)
}

type NewsletterRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Create(ctx context.Context, sub *models.NewsletterSubscriber) error
	Resubscribe(ctx context.Context, id int64, at time.Time) error
	Unsubscribe(ctx context.Context, id int64, at time.Time) error
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter JobFilter) ([]models.Job, int, error)
}

type JobApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	ListByJob(ctx context.Context, filter JobApplicationFilter) ([]models.JobApplication, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type StatsRepository interface {
	Counts(ctx context.Context) (*models.Stats, error)
}

type Repository struct {
	Admin          AdminRepository
	Contact        ContactRepository
	Blog           BlogRepository
	Comment        CommentRepository
	Marketing      MarketingRepository
	Newsletter     NewsletterRepository
	Job            JobRepository
	JobApplication JobApplicationRepository
	Stats          StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Admin:          NewAdminRepository(db),
		Contact:        NewContactRepository(db),
		Blog:           NewBlogRepository(db),
		Comment:        NewCommentRepository(db),
		Marketing:      NewMarketingRepository(db),
		Newsletter:     NewNewsletterRepository(db),
		Job:            NewJobRepository(db),
		JobApplication: NewJobApplicationRepository(db),
		Stats:          NewStatsRepository(db),
	}
}
