package httpserver

import (
	"net/http"
	"time"

	"subtrack-go/internal/config"
	userdomain "subtrack-go/internal/domain/user"
	"subtrack-go/internal/transport/httpserver/handler"
	appmw "subtrack-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(appmw.NewCORS(cfg.CORSOrigins))
	r.Use(appmw.WithIdentity)

	admin := appmw.RequireRoles(userdomain.RoleAdmin)
	premium := appmw.RequireRoles(userdomain.RolePremium, userdomain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.With(admin).Get("/users", handlers.ListUsers)
		r.Get("/users/{id}", handlers.GetUser)
		r.With(admin).Post("/users", handlers.CreateUser)
		r.With(admin).Patch("/users/{id}", handlers.UpdateUser)
		r.With(admin).Delete("/users/{id}", handlers.DeleteUser)

		r.Get("/categories", handlers.ListCategories)
		r.Get("/categories/{id}", handlers.GetCategory)
		r.With(admin).Post("/categories", handlers.CreateCategory)
		r.With(admin).Post("/categories/seed", handlers.SeedCategories)
		r.With(admin).Patch("/categories/{id}", handlers.UpdateCategory)
		r.With(admin).Delete("/categories/{id}", handlers.DeleteCategory)

		// Ownership and sharing checks live in the subscription service.
		r.Get("/subscriptions", handlers.ListSubscriptions)
		r.Get("/subscriptions/{id}", handlers.GetSubscription)
		r.Post("/subscriptions", handlers.CreateSubscription)
		r.Patch("/subscriptions/{id}", handlers.UpdateSubscription)
		r.Delete("/subscriptions/{id}", handlers.DeleteSubscription)

		r.Get("/reminders", handlers.ListReminders)
		r.Get("/reminders/due", handlers.DueReminders)
		r.Get("/reminders/subscription/{id}", handlers.ListRemindersBySubscription)
		r.Get("/reminders/{id}", handlers.GetReminder)
		r.Post("/reminders", handlers.CreateReminder)
		r.Patch("/reminders/{id}", handlers.UpdateReminder)
		r.Delete("/reminders/{id}", handlers.DeleteReminder)

		r.Post("/actions/cost-analysis", handlers.CostAnalysis)
		r.With(premium).Post("/actions/share/{id}", handlers.ShareSubscription)
		r.Post("/actions/cancel-reminders", handlers.CancelReminders)

		r.With(premium).Post("/jobs/export-subscriptions", handlers.StartExportJob)
		r.With(admin).Post("/jobs/check-reminders", handlers.StartReminderCheckJob)
		r.With(premium).Post("/jobs/import-data", handlers.StartImportJob)
		r.Get("/jobs/{id}/status", handlers.JobStatus)
		r.Get("/jobs/user/{userId}", handlers.ListJobsByUser)
	})

	return r
}
