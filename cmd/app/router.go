package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"sownmark/internal/config"
	handlers "sownmark/internal/handler"
	"sownmark/internal/metrics"
	"sownmark/internal/middleware"
)

// NewRouter registers every route. Admin routes require a valid admin token and
// public write routes are rate limited per client.
func NewRouter(h *handlers.Handlers, auth middleware.TokenValidator, limiter *middleware.RateLimiter,
	cfg *config.Config, log *logrus.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(middleware.LoggingMiddleware(log)))
	r.Use(metrics.InstrumentHandler)

	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.Chain(fn, middleware.AdminOnly, middleware.AuthMiddleware(auth))
	}
	limited := func(fn http.HandlerFunc) http.Handler {
		return limiter.Handler(fn)
	}

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// admin auth; api routes stay on r so a wrong method reaches MethodNotAllowedHandler
	r.Handle("/api/admin/auth/signup", limited(h.Signup)).Methods(http.MethodPost)
	r.Handle("/api/admin/auth/login", limited(h.Login)).Methods(http.MethodPost)

	// leads
	r.Handle("/api/marketing/apply", limited(h.ApplyMarketing)).Methods(http.MethodPost)
	r.Handle("/api/contact/contact-messages", limited(h.SubmitContact)).Methods(http.MethodPost)
	r.Handle("/api/newsletter/subscriptions", limited(h.Subscribe)).Methods(http.MethodPost)
	r.Handle("/api/newsletter/subscriptions", limited(h.Unsubscribe)).Methods(http.MethodDelete)

	// blogs
	r.HandleFunc("/api/blogs", h.GetBlogs).Methods(http.MethodGet)
	r.Handle("/api/blogs", admin(h.CreateBlog)).Methods(http.MethodPost)
	r.HandleFunc("/api/blogs/{id}", h.GetBlog).Methods(http.MethodGet)
	r.Handle("/api/blogs/{id}", admin(h.UpdateBlog)).Methods(http.MethodPut)
	r.Handle("/api/blogs/{id}", admin(h.DeleteBlog)).Methods(http.MethodDelete)
	r.Handle("/api/blogs/{id}/likes", limited(h.LikeBlog)).Methods(http.MethodPost)
	r.Handle("/api/blogs/{id}/shares", limited(h.ShareBlog)).Methods(http.MethodPost)
	r.HandleFunc("/api/blogs/{id}/comments", h.GetComments).Methods(http.MethodGet)
	r.Handle("/api/blogs/{id}/comments", limited(h.CreateComment)).Methods(http.MethodPost)
	r.Handle("/api/blogs/{id}/comments/{commentId}", admin(h.DeleteComment)).Methods(http.MethodDelete)

	// jobs; literal segments before {id}
	r.HandleFunc("/api/jobs", h.GetJobs).Methods(http.MethodGet)
	r.Handle("/api/jobs", admin(h.CreateJob)).Methods(http.MethodPost)
	r.Handle("/api/jobs/apply", limited(h.ApplyJob)).Methods(http.MethodPost)
	r.Handle("/api/jobs/applications/{id}/status", admin(h.UpdateApplicationStatus)).Methods(http.MethodPut)
	r.Handle("/api/jobs/{job_id}/applications", admin(h.GetJobApplications)).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id}", h.GetJob).Methods(http.MethodGet)
	r.Handle("/api/jobs/{id}", admin(h.UpdateJob)).Methods(http.MethodPut)
	r.Handle("/api/jobs/{id}", admin(h.DeleteJob)).Methods(http.MethodDelete)

	// admin dashboard
	r.Handle("/api/admin/stats", admin(h.StatsHandler)).Methods(http.MethodGet)
	r.Handle("/api/admin/marketing-applications", admin(h.ListMarketingApplications)).Methods(http.MethodGet)
	r.Handle("/api/admin/contact-messages", admin(h.ListContactMessages)).Methods(http.MethodGet)
	r.Handle("/api/admin/contact-messages/{id}/status", admin(h.UpdateContactStatus)).Methods(http.MethodPut)
	r.Handle("/api/admin/admin/contact-messages/{id}", admin(h.UpdateContactStatus)).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return middleware.NewCORSMiddleware(cfg.Server.AllowedOrigins).Handler(r)
}
