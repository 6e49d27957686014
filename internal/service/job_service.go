package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sownmark/internal/metrics"
	"sownmark/internal/models"
	"sownmark/internal/repository"
)

type JobRequest struct {
	Title            string
	Department       string
	JobType          string
	Location         string
	ExperienceLevel  string
	Summary          string
	Responsibilities []string
	Qualifications   []string
	PreferredSkills  []string
	Compensation     *string
	Timezone         *string
	Status           string
	ExpiryDate       *time.Time
}

type JobQuery struct {
	Department string
	Location   string
	JobType    string
	Status     string
	Page       int
	Limit      int
}

type JobList struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type JobApplicationRequest struct {
	JobID       int64
	FullName    string
	Email       string
	Phone       string
	ResumeURL   string
	LinkedInURL *string
	CoverLetter *string
}

type JobApplicationList struct {
	Applications []models.JobApplication `json:"applications"`
	Total        int                     `json:"total"`
	Page         int                     `json:"page"`
	Limit        int                     `json:"limit"`
}

type JobService interface {
	Create(ctx context.Context, req JobRequest) (*models.Job, error)
	Update(ctx context.Context, id int64, req JobRequest) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context, q JobQuery) (*JobList, error)
	Apply(ctx context.Context, req JobApplicationRequest) (*models.JobApplication, error)
	ListApplications(ctx context.Context, jobID int64, status string, page, limit int) (*JobApplicationList, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status string) error
}

type jobService struct {
	jobRepo repository.JobRepository
	appRepo repository.JobApplicationRepository
	log     *logrus.Logger
}

func NewJobService(jobRepo repository.JobRepository, appRepo repository.JobApplicationRepository,
	log *logrus.Logger) JobService {
	return &jobService{
		jobRepo: jobRepo,
		appRepo: appRepo,
		log:     log,
	}
}

// buildJob applies the same required-field rules on create and update.
func buildJob(req JobRequest) (*models.Job, error) {
	job := &models.Job{
		Title:            strings.TrimSpace(req.Title),
		Department:       strings.TrimSpace(req.Department),
		JobType:          strings.TrimSpace(req.JobType),
		Location:         strings.TrimSpace(req.Location),
		ExperienceLevel:  strings.TrimSpace(req.ExperienceLevel),
		Summary:          strings.TrimSpace(req.Summary),
		Responsibilities: cleanList(req.Responsibilities),
		Qualifications:   cleanList(req.Qualifications),
		Compensation:     emptyToNil(req.Compensation),
		Timezone:         emptyToNil(req.Timezone),
		Status:           strings.TrimSpace(req.Status),
		ExpiryDate:       req.ExpiryDate,
	}
	if req.PreferredSkills != nil {
		job.PreferredSkills = cleanList(req.PreferredSkills)
	}
	if job.Status == "" {
		job.Status = models.JobStatusOpen
	}

	if job.Title == "" || job.Department == "" || job.JobType == "" || job.Location == "" ||
		job.ExperienceLevel == "" || job.Summary == "" ||
		len(job.Responsibilities) == 0 || len(job.Qualifications) == 0 {
		return nil, Validation("All required fields must be provided")
	}

	return job, nil
}

func (s *jobService) Create(ctx context.Context, req JobRequest) (*models.Job, error) {
	job, err := buildJob(req)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("job", "created")
	s.log.WithFields(logrus.Fields{"job_id": job.ID, "department": job.Department}).Info("job posting created")
	return job, nil
}

func (s *jobService) Update(ctx context.Context, id int64, req JobRequest) error {
	job, err := buildJob(req)
	if err != nil {
		return err
	}
	job.ID = id

	err = s.jobRepo.Update(ctx, job)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Job posting not found")
		}
		return Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("job", "updated")
	return nil
}

func (s *jobService) Delete(ctx context.Context, id int64) error {
	err := s.jobRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Job posting not found")
		}
		return Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("job", "deleted")
	s.log.WithField("job_id", id).Info("job posting deleted")
	return nil
}

func (s *jobService) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Job posting not found")
		}
		return nil, Internal("Internal server error", err)
	}
	return job, nil
}

func (s *jobService) List(ctx context.Context, q JobQuery) (*JobList, error) {
	p := NormalizePage(q.Page, q.Limit)

	jobs, total, err := s.jobRepo.List(ctx, repository.JobFilter{
		Department: strings.TrimSpace(q.Department),
		Location:   strings.TrimSpace(q.Location),
		JobType:    strings.TrimSpace(q.JobType),
		Status:     strings.TrimSpace(q.Status),
		Page:       p,
	})
	if err != nil {
		return nil, Internal("Internal server error", err)
	}

	return &JobList{Jobs: jobs, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *jobService) Apply(ctx context.Context, req JobApplicationRequest) (*models.JobApplication, error) {
	app := &models.JobApplication{
		JobID:       req.JobID,
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		ResumeURL:   strings.TrimSpace(req.ResumeURL),
		LinkedInURL: emptyToNil(req.LinkedInURL),
		CoverLetter: emptyToNil(req.CoverLetter),
		Status:      models.ApplicationStatusNew,
	}

	if app.JobID <= 0 || app.FullName == "" || app.Email == "" || app.Phone == "" || app.ResumeURL == "" {
		return nil, Validation("All required fields must be provided")
	}
	if !validEmail(app.Email) {
		return nil, Validation("Invalid email format")
	}

	exists, err := s.jobRepo.Exists(ctx, app.JobID)
	if err != nil {
		return nil, Internal("Internal server error", err)
	}
	if !exists {
		return nil, NotFound("Job posting not found")
	}

	err = s.appRepo.Create(ctx, app)
	if err != nil {
		// the job was removed after the existence check
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Job posting not found")
		}
		return nil, Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("job_application", "submitted")
	s.log.WithFields(logrus.Fields{"application_id": app.ID, "job_id": app.JobID}).Info("job application submitted")
	return app, nil
}

func (s *jobService) ListApplications(ctx context.Context, jobID int64, status string, page, limit int) (*JobApplicationList, error) {
	status = strings.TrimSpace(status)
	if status != "" && !oneOf(status, models.ApplicationStatuses) {
		return nil, Validation("Invalid status")
	}

	exists, err := s.jobRepo.Exists(ctx, jobID)
	if err != nil {
		return nil, Internal("Internal server error", err)
	}
	if !exists {
		return nil, NotFound("Job posting not found")
	}

	p := NormalizePage(page, limit)
	apps, total, err := s.appRepo.ListByJob(ctx, repository.JobApplicationFilter{JobID: jobID, Status: status, Page: p})
	if err != nil {
		return nil, Internal("Internal server error", err)
	}

	return &JobApplicationList{Applications: apps, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *jobService) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	status = strings.TrimSpace(status)
	if !oneOf(status, models.ApplicationStatuses) {
		return Validation("Invalid status")
	}

	err := s.appRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Application not found")
		}
		return Internal("Internal server error", err)
	}

	metrics.RecordWorkflow("job_application", "status_"+status)
	return nil
}
