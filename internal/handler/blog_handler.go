package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"sownmark/internal/models"
	"sownmark/internal/service"
)

const (
	imageField        = "featured_image"
	defaultUploadSize = 5 << 20
	formOverhead      = 1 << 20
)

// BlogBody is the JSON form of a blog create or update. Lists accept either an
// array or a comma separated string.
type BlogBody struct {
	Title           *string     `json:"title" validate:"omitempty,max=255"`
	Excerpt         *string     `json:"excerpt" validate:"omitempty,max=1000"`
	Content         *string     `json:"content"`
	Category        *stringList `json:"category"`
	Author          *string     `json:"author" validate:"omitempty,max=100"`
	AuthorBio       *string     `json:"author_bio" validate:"omitempty,max=1000"`
	Status          *string     `json:"status"`
	ReadTime        *int        `json:"read_time"`
	Tags            *stringList `json:"tags"`
	IsFeatured      *bool       `json:"is_featured"`
	MetaDescription *string     `json:"meta_description" validate:"omitempty,max=320"`
}

type CreateBlogResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type CommentBody struct {
	UserID    *int64  `json:"user_id"`
	UserName  *string `json:"user_name" validate:"omitempty,max=100"`
	UserEmail *string `json:"user_email" validate:"omitempty,max=254"`
	Content   string  `json:"content" validate:"max=5000"`
}

type CreateCommentResponse struct {
	Message   string          `json:"message"`
	CommentID int64           `json:"commentId"`
	Comment   *models.Comment `json:"comment"`
}

func (h *Handlers) GetBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.BlogService.GetAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, blogs, http.StatusOK)
}

func (h *Handlers) GetBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	blog, err := h.BlogService.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, blog, http.StatusOK)
}

// CreateBlog accepts multipart/form-data with an optional featured_image, or plain JSON.
func (h *Handlers) CreateBlog(w http.ResponseWriter, r *http.Request) {
	body, image, ok := h.readBlogBody(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.close()
	}

	req := service.CreateBlogRequest{
		Title:           deref(body.Title),
		Excerpt:         body.Excerpt,
		Content:         deref(body.Content),
		Author:          deref(body.Author),
		AuthorBio:       body.AuthorBio,
		Status:          deref(body.Status),
		MetaDescription: body.MetaDescription,
		Image:           image.upload(),
	}
	if body.Category != nil {
		req.Categories = *body.Category
	}
	if body.Tags != nil {
		req.Tags = *body.Tags
	}
	if body.ReadTime != nil {
		req.ReadTime = *body.ReadTime
	}
	if body.IsFeatured != nil {
		req.IsFeatured = *body.IsFeatured
	}

	blog, err := h.BlogService.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, CreateBlogResponse{Message: "Blog created successfully", ID: blog.ID}, http.StatusCreated)
}

func (h *Handlers) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	body, image, ok := h.readBlogBody(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.close()
	}

	req := service.UpdateBlogRequest{
		Title:           body.Title,
		Excerpt:         body.Excerpt,
		Content:         body.Content,
		Author:          body.Author,
		AuthorBio:       body.AuthorBio,
		Status:          body.Status,
		ReadTime:        body.ReadTime,
		IsFeatured:      body.IsFeatured,
		MetaDescription: body.MetaDescription,
		Image:           image.upload(),
	}
	if body.Category != nil {
		categories := []string(*body.Category)
		req.Categories = &categories
	}
	if body.Tags != nil {
		tags := []string(*body.Tags)
		req.Tags = &tags
	}

	if err := h.BlogService.Update(r.Context(), id, req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Blog updated successfully", http.StatusOK)
}

func (h *Handlers) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	if err := h.BlogService.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Blog and associated comments deleted successfully", http.StatusOK)
}

func (h *Handlers) LikeBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	if err := h.BlogService.IncrementLikes(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Likes incremented successfully", http.StatusOK)
}

func (h *Handlers) ShareBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	if err := h.BlogService.IncrementShares(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Shares incremented successfully", http.StatusOK)
}

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	comments, err := h.BlogService.GetComments(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, comments, http.StatusOK)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	var body CommentBody
	if !h.decodeJSON(w, r, &body) {
		return
	}

	comment, err := h.BlogService.CreateComment(r.Context(), id, service.CommentRequest{
		UserID:    body.UserID,
		UserName:  body.UserName,
		UserEmail: body.UserEmail,
		Content:   body.Content,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, CreateCommentResponse{
		Message:   "Comment created successfully",
		CommentID: comment.ID,
		Comment:   comment,
	}, http.StatusCreated)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	blogID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		WriteError(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := h.BlogService.DeleteComment(r.Context(), blogID, commentID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Comment deleted successfully", http.StatusOK)
}

// formImage is the featured image part of a multipart request.
type formImage struct {
	file   multipart.File
	header *multipart.FileHeader
}

func (i *formImage) upload() *service.ImageUpload {
	if i == nil {
		return nil
	}
	return &service.ImageUpload{
		FileName:    i.header.Filename,
		ContentType: i.header.Header.Get("Content-Type"),
		Size:        i.header.Size,
		Reader:      i.file,
	}
}

func (i *formImage) close() {
	i.file.Close()
}

func (h *Handlers) maxUploadSize() int64 {
	if h.Cfg == nil || h.Cfg.Server.MaxUploadSize <= 0 {
		return defaultUploadSize
	}
	return h.Cfg.Server.MaxUploadSize
}

// readBlogBody decodes a blog body from JSON or multipart form data. Only
// fields present in the request are set.
func (h *Handlers) readBlogBody(w http.ResponseWriter, r *http.Request) (*BlogBody, *formImage, bool) {
	var body BlogBody
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if !h.decodeJSON(w, r, &body) {
			return nil, nil, false
		}
		return &body, nil, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize()+formOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return nil, nil, false
		}
		WriteError(w, "Invalid form data", http.StatusBadRequest)
		return nil, nil, false
	}

	form := r.MultipartForm.Value
	body.Title = formValue(form, "title")
	body.Excerpt = formValue(form, "excerpt")
	body.Content = formValue(form, "content")
	body.Author = formValue(form, "author")
	body.AuthorBio = formValue(form, "author_bio")
	body.Status = formValue(form, "status")
	body.MetaDescription = formValue(form, "meta_description")
	if v := formValue(form, "category"); v != nil {
		list := stringList(splitList(*v))
		body.Category = &list
	}
	if v := formValue(form, "tags"); v != nil {
		list := stringList(splitList(*v))
		body.Tags = &list
	}
	if v := formValue(form, "read_time"); v != nil && strings.TrimSpace(*v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			WriteError(w, "Invalid read_time", http.StatusBadRequest)
			return nil, nil, false
		}
		body.ReadTime = &n
	}
	if v := formValue(form, "is_featured"); v != nil && strings.TrimSpace(*v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(*v))
		if err != nil {
			WriteError(w, "Invalid is_featured", http.StatusBadRequest)
			return nil, nil, false
		}
		body.IsFeatured = &b
	}

	if !h.validate(w, &body) {
		return nil, nil, false
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return &body, nil, true
		}
		WriteError(w, "Invalid image upload", http.StatusBadRequest)
		return nil, nil, false
	}

	return &body, &formImage{file: file, header: header}, true
}

func formValue(form map[string][]string, key string) *string {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
