package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	ContactStatusNew       = "new"
	ContactStatusRead      = "read"
	ContactStatusResponded = "responded"

	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
	BlogStatusArchived  = "archived"

	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"

	JobStatusOpen   = "open"
	JobStatusClosed = "closed"

	ApplicationStatusNew         = "new"
	ApplicationStatusReviewed    = "reviewed"
	ApplicationStatusInterviewed = "interviewed"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusHired       = "hired"

	DefaultCommentAuthor = "Anonymous"
)

var (
	ContactSubjects = []string{
		"Digital Marketing Course Inquiry",
		"Hiring Needs",
		"Agency Services",
		"Website Development",
		"General Inquiry",
	}

	ContactStatuses     = []string{ContactStatusNew, ContactStatusRead, ContactStatusResponded}
	BlogStatuses        = []string{BlogStatusDraft, BlogStatusPublished, BlogStatusArchived}
	ApplicationStatuses = []string{
		ApplicationStatusNew,
		ApplicationStatusReviewed,
		ApplicationStatusInterviewed,
		ApplicationStatusRejected,
		ApplicationStatusHired,
	}
)

type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type ContactMessage struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Blog list columns are Postgres text[]; pq.StringArray keeps their order
// and marshals to a plain JSON array.
type Blog struct {
	ID              int64          `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Slug            string         `json:"slug" db:"slug"`
	Excerpt         *string        `json:"excerpt" db:"excerpt"`
	Content         string         `json:"content" db:"content"`
	Category        pq.StringArray `json:"category" db:"category"`
	Image           *string        `json:"image" db:"image"`
	Author          string         `json:"author" db:"author"`
	AuthorBio       *string        `json:"author_bio" db:"author_bio"`
	Status          string         `json:"status" db:"status"`
	ReadTime        int            `json:"read_time" db:"read_time"`
	Tags            pq.StringArray `json:"tags" db:"tags"`
	IsFeatured      bool           `json:"is_featured" db:"is_featured"`
	Likes           int            `json:"likes" db:"likes"`
	Shares          int            `json:"shares" db:"shares"`
	Comments        int            `json:"comments" db:"comments"`
	MetaDescription *string        `json:"meta_description" db:"meta_description"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at" db:"updated_at"`
	PublishedAt     *time.Time     `json:"published_at" db:"published_at"`
}

// BlogWithComments is the detail view; CommentList is loaded separately.
type BlogWithComments struct {
	Blog
	CommentList []Comment `json:"comment_list"`
}

type Comment struct {
	ID        int64      `json:"id" db:"id"`
	BlogID    int64      `json:"blog_id" db:"blog_id"`
	UserID    *int64     `json:"user_id" db:"user_id"`
	UserName  string     `json:"user_name" db:"user_name"`
	UserEmail *string    `json:"user_email" db:"user_email"`
	Content   string     `json:"content" db:"content"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

type MarketingApplication struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	ReferralCode string    `json:"referral_code" db:"referral_code"`
	ReferredBy   *string   `json:"referred_by" db:"referred_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MarketingApplicationView carries the derived referral count; it is never stored.
type MarketingApplicationView struct {
	MarketingApplication
	ReferralCount int `json:"referral_count" db:"referral_count"`
}

type NewsletterSubscriber struct {
	ID             int64      `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	Status         string     `json:"status" db:"status"`
	SubscribedAt   time.Time  `json:"subscribed_at" db:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at" db:"unsubscribed_at"`
}

type Job struct {
	ID               int64          `json:"id" db:"id"`
	Title            string         `json:"title" db:"title"`
	Department       string         `json:"department" db:"department"`
	JobType          string         `json:"job_type" db:"job_type"`
	Location         string         `json:"location" db:"location"`
	ExperienceLevel  string         `json:"experience_level" db:"experience_level"`
	Summary          string         `json:"summary" db:"summary"`
	Responsibilities pq.StringArray `json:"responsibilities" db:"responsibilities"`
	Qualifications   pq.StringArray `json:"qualifications" db:"qualifications"`
	PreferredSkills  pq.StringArray `json:"preferred_skills" db:"preferred_skills"`
	Compensation     *string        `json:"compensation" db:"compensation"`
	Timezone         *string        `json:"timezone" db:"timezone"`
	Status           string         `json:"status" db:"status"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
	ExpiryDate       *time.Time     `json:"expiry_date" db:"expiry_date"`
}

type JobApplication struct {
	ID          int64      `json:"id" db:"id"`
	JobID       int64      `json:"job_id" db:"job_id"`
	FullName    string     `json:"full_name" db:"full_name"`
	Email       string     `json:"email" db:"email"`
	Phone       string     `json:"phone" db:"phone"`
	ResumeURL   string     `json:"resume_url" db:"resume_url"`
	LinkedInURL *string    `json:"linkedin_url" db:"linkedin_url"`
	CoverLetter *string    `json:"cover_letter" db:"cover_letter"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	Blogs                 int `json:"blogs" db:"blogs"`
	Comments              int `json:"comments" db:"comments"`
	NewContactMessages    int `json:"new_contact_messages" db:"new_contact_messages"`
	ActiveSubscribers     int `json:"active_subscribers" db:"active_subscribers"`
	MarketingApplications int `json:"marketing_applications" db:"marketing_applications"`
	OpenJobs              int `json:"open_jobs" db:"open_jobs"`
	JobApplications       int `json:"job_applications" db:"job_applications"`
}
