package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/complaint-management/internal/auth"
	"github.com/frahmantamala/complaint-management/internal/category"
	"github.com/frahmantamala/complaint-management/internal/complaint"
	"github.com/frahmantamala/complaint-management/internal/transport/middleware"
	"github.com/frahmantamala/complaint-management/internal/transport/swagger"
	"github.com/frahmantamala/complaint-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, complaintHandler *complaint.Handler, categoryHandler *category.Handler, uploadDir string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	roleAuth := auth.NewRoleAuthorization(logger)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Uploaded attachments are served statically
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	router.Handle("/uploads/*", fileServer)

	router.Route("/api", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", authHandler.Register)
				sr.Post("/login", authHandler.Login)
			})
		}

		// Public categories route (no auth required)
		if categoryHandler != nil {
			r.Get("/categories", categoryHandler.GetCategories)
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Complaint routes
				if complaintHandler != nil {
					pr.Route("/complaints", func(cr chi.Router) {
						// User routes
						cr.Post("/", complaintHandler.CreateComplaint)            // POST /complaints
						cr.Get("/my-complaints", complaintHandler.GetMyComplaints) // GET /complaints/my-complaints
						cr.Get("/{id}", complaintHandler.GetComplaint)             // GET /complaints/:id

						// Admin routes with role protection
						cr.Group(func(ar chi.Router) {
							ar.Use(roleAuth.RequireAdmin())
							ar.Get("/", complaintHandler.GetAllComplaints)                   // GET /complaints
							ar.Put("/{id}/status", complaintHandler.UpdateStatus)            // PUT /complaints/:id/status
							ar.Get("/stats/dashboard", complaintHandler.GetDashboardStats)   // GET /complaints/stats/dashboard
						})
					})
				}
			})
		}
	})
}
