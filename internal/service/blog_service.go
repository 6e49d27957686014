package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"sownmark/internal/metrics"
	"sownmark/internal/models"
	"sownmark/internal/repository"
	"sownmark/internal/storage"
)

// ImageUpload is an optional featured image attached to a create or update.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type CreateBlogRequest struct {
	Title           string
	Excerpt         *string
	Content         string
	Categories      []string
	Author          string
	AuthorBio       *string
	Status          string
	ReadTime        int
	Tags            []string
	IsFeatured      bool
	MetaDescription *string
	Image           *ImageUpload
}

// UpdateBlogRequest is a partial update: nil fields are left untouched.
type UpdateBlogRequest struct {
	Title           *string
	Excerpt         *string
	Content         *string
	Categories      *[]string
	Author          *string
	AuthorBio       *string
	Status          *string
	ReadTime        *int
	Tags            *[]string
	IsFeatured      *bool
	MetaDescription *string
	Image           *ImageUpload
}

type CommentRequest struct {
	UserID    *int64
	UserName  *string
	UserEmail *string
	Content   string
}

type BlogService interface {
	Create(ctx context.Context, req CreateBlogRequest) (*models.Blog, error)
	Update(ctx context.Context, id int64, req UpdateBlogRequest) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]models.Blog, error)
	GetByID(ctx context.Context, id int64) (*models.BlogWithComments, error)
	IncrementLikes(ctx context.Context, id int64) error
	IncrementShares(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, blogID int64, req CommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, blogID, commentID int64) error
	GetComments(ctx context.Context, blogID int64) ([]models.Comment, error)
}

type blogService struct {
	blogRepo      repository.BlogRepository
	commentRepo   repository.CommentRepository
	storage       storage.Storage
	maxUploadSize int64
	log           *logrus.Logger
	now           func() time.Time
}

func NewBlogService(blogRepo repository.BlogRepository, commentRepo repository.CommentRepository,
	storage storage.Storage, maxUploadSize int64, log *logrus.Logger) BlogService {
	return &blogService{
		blogRepo:      blogRepo,
		commentRepo:   commentRepo,
		storage:       storage,
		maxUploadSize: maxUploadSize,
		log:           log,
		now:           time.Now,
	}
}

func (s *blogService) Create(ctx context.Context, req CreateBlogRequest) (*models.Blog, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	author := strings.TrimSpace(req.Author)
	status := strings.TrimSpace(req.Status)

	if title == "" || content == "" || author == "" || status == "" {
		return nil, Validation("Title, content, author, and status are required")
	}
	if !oneOf(status, models.BlogStatuses) {
		return nil, Validation("Invalid status")
	}
	if req.ReadTime < 0 {
		return nil, Validation("Read time must not be negative")
	}

	blogSlug, err := makeSlug(title)
	if err != nil {
		return nil, err
	}
	if err := s.checkImage(req.Image); err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:           title,
		Slug:            blogSlug,
		Excerpt:         emptyToNil(req.Excerpt),
		Content:         content,
		Category:        cleanList(req.Categories),
		Author:          author,
		AuthorBio:       emptyToNil(req.AuthorBio),
		Status:          status,
		ReadTime:        req.ReadTime,
		Tags:            cleanList(req.Tags),
		IsFeatured:      req.IsFeatured,
		MetaDescription: emptyToNil(req.MetaDescription),
	}
	if status == models.BlogStatusPublished {
		now := s.now()
		blog.PublishedAt = &now
	}

	objectName, imageURL, err := s.upload(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		blog.Image = &imageURL
	}

	err = s.blogRepo.Create(ctx, blog)
	if err != nil {
		s.discardImage(objectName)
		if repository.IsDuplicate(err, repository.BlogSlugConstraint) {
			return nil, Conflict("A blog with this title already exists")
		}
		return nil, Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("blog", "created")
	s.log.WithFields(logrus.Fields{"blog_id": blog.ID, "slug": blog.Slug}).Info("blog created")

	return blog, nil
}

func (s *blogService) Update(ctx context.Context, id int64, req UpdateBlogRequest) error {
	upd := repository.BlogUpdate{
		Excerpt:         trimPtr(req.Excerpt),
		Author:          trimPtr(req.Author),
		AuthorBio:       trimPtr(req.AuthorBio),
		ReadTime:        req.ReadTime,
		IsFeatured:      req.IsFeatured,
		MetaDescription: trimPtr(req.MetaDescription),
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return Validation("Title must not be empty")
		}
		blogSlug, err := makeSlug(title)
		if err != nil {
			return err
		}
		upd.Title = &title
		upd.Slug = &blogSlug
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return Validation("Content must not be empty")
		}
		upd.Content = &content
	}
	if upd.Author != nil && *upd.Author == "" {
		return Validation("Author must not be empty")
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if !oneOf(status, models.BlogStatuses) {
			return Validation("Invalid status")
		}
		upd.Status = &status
	}
	if req.ReadTime != nil && *req.ReadTime < 0 {
		return Validation("Read time must not be negative")
	}
	if req.Categories != nil {
		categories := cleanList(*req.Categories)
		upd.Category = &categories
	}
	if req.Tags != nil {
		tags := cleanList(*req.Tags)
		upd.Tags = &tags
	}
	if err := s.checkImage(req.Image); err != nil {
		return err
	}

	var previousImage string
	if req.Image != nil {
		current, err := s.blogRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NotFound("Blog not found")
			}
			return Internal("Internal server error", err)
		}
		if current.Image != nil {
			previousImage = storage.ObjectNameFromURL(*current.Image)
		}
	}

	objectName, imageURL, err := s.upload(ctx, req.Image)
	if err != nil {
		return err
	}
	if imageURL != "" {
		upd.Image = &imageURL
	}

	err = s.blogRepo.Update(ctx, id, upd)
	if err != nil {
		s.discardImage(objectName)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NotFound("Blog not found")
		case repository.IsDuplicate(err, repository.BlogSlugConstraint):
			return Conflict("A blog with this title already exists")
		default:
			return Internal("Internal server error", err)
		}
	}

	if previousImage != objectName {
		s.discardImage(previousImage)
	}

	metrics.RecordWorkflow("blog", "updated")
	return nil
}

func (s *blogService) Delete(ctx context.Context, id int64) error {
	err := s.blogRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Blog not found")
		}
		return Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("blog", "deleted")
	s.log.WithField("blog_id", id).Info("blog and comments deleted")
	return nil
}

func (s *blogService) GetAll(ctx context.Context) ([]models.Blog, error) {
	blogs, err := s.blogRepo.GetAll(ctx)
	if err != nil {
		return nil, Internal("Internal server error", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return blogs, nil
}

func (s *blogService) GetByID(ctx context.Context, id int64) (*models.BlogWithComments, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Blog not found")
		}
		return nil, Internal("Internal server error", err)
	}

	comments, err := s.commentRepo.GetByBlogID(ctx, id)
	if err != nil {
		return nil, Internal("Internal server error", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return &models.BlogWithComments{Blog: *blog, CommentList: comments}, nil
}

func (s *blogService) IncrementLikes(ctx context.Context, id int64) error {
	return s.increment(ctx, "liked", id, s.blogRepo.IncrementLikes)
}

func (s *blogService) IncrementShares(ctx context.Context, id int64) error {
	return s.increment(ctx, "shared", id, s.blogRepo.IncrementShares)
}

func (s *blogService) increment(ctx context.Context, outcome string, id int64, fn func(context.Context, int64) error) error {
	err := fn(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Blog not found")
		}
		return Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("blog", outcome)
	return nil
}

func (s *blogService) CreateComment(ctx context.Context, blogID int64, req CommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, Validation("Comment content is required")
	}

	userEmail := emptyToNil(req.UserEmail)
	if userEmail != nil && !validEmail(*userEmail) {
		return nil, Validation("Invalid email format")
	}

	comment := &models.Comment{
		BlogID:    blogID,
		UserID:    req.UserID,
		UserEmail: userEmail,
		Content:   content,
	}
	if name := emptyToNil(req.UserName); name != nil {
		comment.UserName = *name
	}

	err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Blog not found")
		}
		return nil, Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("comment", "created")
	return comment, nil
}

func (s *blogService) DeleteComment(ctx context.Context, blogID, commentID int64) error {
	err := s.commentRepo.Delete(ctx, blogID, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Comment not found")
		}
		return Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("comment", "deleted")
	return nil
}

func (s *blogService) GetComments(ctx context.Context, blogID int64) ([]models.Comment, error) {
	exists, err := s.blogRepo.Exists(ctx, blogID)
	if err != nil {
		return nil, Internal("Internal server error", err)
	}
	if !exists {
		return nil, NotFound("Blog not found")
	}

	comments, err := s.commentRepo.GetByBlogID(ctx, blogID)
	if err != nil {
		return nil, Internal("Internal server error", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func makeSlug(title string) (string, error) {
	s := slug.Make(title)
	if s == "" {
		return "", Validation("Title must contain letters or digits")
	}
	return s, nil
}

// checkImage runs before any write so a bad file never reaches storage.
func (s *blogService) checkImage(img *ImageUpload) error {
	if img == nil {
		return nil
	}
	if _, err := storage.ValidateImage(img.FileName, img.ContentType); err != nil {
		return Validation("Only image files (jpeg, jpg, png, gif) are allowed.")
	}
	if s.maxUploadSize > 0 && img.Size > s.maxUploadSize {
		return Validation(fmt.Sprintf("Image must not exceed %d MB", s.maxUploadSize/(1024*1024)))
	}
	return nil
}

// upload stores the image and returns its object name and public URL; both
// are empty when there is no image.
func (s *blogService) upload(ctx context.Context, img *ImageUpload) (string, string, error) {
	if img == nil {
		return "", "", nil
	}

	objectName, imageURL, err := s.storage.UploadImage(ctx, img.FileName, img.ContentType, img.Reader, img.Size)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "", "", Validation("Only image files (jpeg, jpg, png, gif) are allowed.")
		}
		return "", "", Internal("Failed to upload image", err)
	}

	s.log.WithField("object", objectName).Debug("blog image uploaded")
	return objectName, imageURL, nil
}

// discardImage removes an image no row points at: a fresh upload whose row was
// never written, or the image an update replaced.
func (s *blogService) discardImage(objectName string) {
	if objectName == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.storage.DeleteImage(ctx, objectName); err != nil {
		s.log.WithError(err).WithField("object", objectName).Warn("failed to remove orphaned blog image")
	}
}
