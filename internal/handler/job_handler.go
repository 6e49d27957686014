package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sownmark/internal/service"
)

type JobBody struct {
	Title            string     `json:"title" validate:"max=255"`
	Department       string     `json:"department" validate:"max=100"`
	JobType          string     `json:"job_type" validate:"max=50"`
	Location         string     `json:"location" validate:"max=100"`
	ExperienceLevel  string     `json:"experience_level" validate:"max=50"`
	Summary          string     `json:"summary"`
	Responsibilities stringList `json:"responsibilities"`
	Qualifications   stringList `json:"qualifications"`
	PreferredSkills  stringList `json:"preferred_skills"`
	Compensation     *string    `json:"compensation" validate:"omitempty,max=100"`
	Timezone         *string    `json:"timezone" validate:"omitempty,max=50"`
	Status           string     `json:"status"`
	ExpiryDate       *date      `json:"expiry_date"`
}

type JobApplicationBody struct {
	JobID       int64   `json:"job_id"`
	FullName    string  `json:"full_name" validate:"max=100"`
	Email       string  `json:"email" validate:"max=254"`
	Phone       string  `json:"phone" validate:"max=20"`
	ResumeURL   string  `json:"resume_url" validate:"max=2048"`
	LinkedInURL *string `json:"linkedin_url" validate:"omitempty,max=2048"`
	CoverLetter *string `json:"cover_letter" validate:"omitempty,max=10000"`
}

type CreateJobResponse struct {
	Message string `json:"message"`
	JobID   int64  `json:"job_id"`
}

type ApplyJobResponse struct {
	Message       string `json:"message"`
	ApplicationID int64  `json:"application_id"`
}

// date accepts "2006-01-02" or RFC 3339.
type date time.Time

func (d *date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = date(t)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (b *JobBody) request() service.JobRequest {
	req := service.JobRequest{
		Title:            b.Title,
		Department:       b.Department,
		JobType:          b.JobType,
		Location:         b.Location,
		ExperienceLevel:  b.ExperienceLevel,
		Summary:          b.Summary,
		Responsibilities: b.Responsibilities,
		Qualifications:   b.Qualifications,
		PreferredSkills:  b.PreferredSkills,
		Compensation:     b.Compensation,
		Timezone:         b.Timezone,
		Status:           b.Status,
	}
	if b.ExpiryDate != nil {
		t := time.Time(*b.ExpiryDate)
		req.ExpiryDate = &t
	}
	return req
}

func (h *Handlers) GetJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.JobService.List(r.Context(), service.JobQuery{
		Department: q.Get("department"),
		Location:   q.Get("location"),
		JobType:    q.Get("job_type"),
		Status:     q.Get("status"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, list, http.StatusOK)
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	job, err := h.JobService.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, job, http.StatusOK)
}

func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var body JobBody
	if !h.decodeJSON(w, r, &body) {
		return
	}

	job, err := h.JobService.Create(r.Context(), body.request())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, CreateJobResponse{Message: "Job posting created successfully", JobID: job.ID}, http.StatusCreated)
}

func (h *Handlers) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	var body JobBody
	if !h.decodeJSON(w, r, &body) {
		return
	}

	if err := h.JobService.Update(r.Context(), id, body.request()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Job posting updated successfully", http.StatusOK)
}

func (h *Handlers) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	if err := h.JobService.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Job posting deleted successfully", http.StatusOK)
}

func (h *Handlers) ApplyJob(w http.ResponseWriter, r *http.Request) {
	var body JobApplicationBody
	if !h.decodeJSON(w, r, &body) {
		return
	}

	app, err := h.JobService.Apply(r.Context(), service.JobApplicationRequest{
		JobID:       body.JobID,
		FullName:    body.FullName,
		Email:       body.Email,
		Phone:       body.Phone,
		ResumeURL:   body.ResumeURL,
		LinkedInURL: body.LinkedInURL,
		CoverLetter: body.CoverLetter,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, ApplyJobResponse{
		Message:       "Application submitted successfully",
		ApplicationID: app.ID,
	}, http.StatusCreated)
}

func (h *Handlers) GetJobApplications(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "job_id")
	if err != nil {
		WriteError(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	list, err := h.JobService.ListApplications(r.Context(), jobID,
		r.URL.Query().Get("status"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, list, http.StatusOK)
}

func (h *Handlers) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid application ID", http.StatusBadRequest)
		return
	}

	var body StatusRequest
	if !h.decodeJSON(w, r, &body) {
		return
	}

	if err := h.JobService.UpdateApplicationStatus(r.Context(), id, body.Status); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Application status updated successfully", http.StatusOK)
}
