package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/famsync/famsync-api/internal/api/middleware"
	"github.com/famsync/famsync-api/internal/api/shared"
)

// routes assembles the HTTP router.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Trace(app.logger))
	r.Use(chimw.Recoverer)

	authn := middleware.NewAuthenticator(app.jwt)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.authHandler.Register)
			r.Post("/login", app.authHandler.Login)
			r.Post("/refresh", app.authHandler.Refresh)
			r.Post("/logout", app.authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authn.Middleware)
				r.Get("/session-check", app.authHandler.Session)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", app.userHandler.Me)
				r.Put("/me", app.userHandler.UpdateMe)
			})

			r.Route("/families", func(r chi.Router) {
				r.Post("/", app.familyHandler.Create)
				r.Get("/", app.familyHandler.List)

				r.Route("/{familyID}", func(r chi.Router) {
					r.Get("/", app.familyHandler.Get)
					r.Put("/", app.familyHandler.Update)
					r.Delete("/", app.familyHandler.Delete)

					r.Post("/members", app.familyHandler.AddMember)
					r.Get("/members", app.familyHandler.ListMembers)
					r.Delete("/members/{memberID}", app.familyHandler.RemoveMember)

					r.Post("/tags", app.tagHandler.Create)
					r.Get("/tags", app.tagHandler.List)
				})
			})

			r.Route("/tags/{tagID}", func(r chi.Router) {
				r.Put("/", app.tagHandler.Update)
				r.Delete("/", app.tagHandler.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", app.taskHandler.Create)
				r.Get("/", app.taskHandler.List)
				r.Get("/roots", app.taskHandler.GetRoots)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", app.taskHandler.Get)
					r.Patch("/", app.taskHandler.Update)
					r.Delete("/", app.taskHandler.Delete)

					r.Post("/subtasks", app.taskHandler.CreateSubtask)
					r.Post("/subtasks/bulk", app.taskHandler.CreateSubtasksBulk)
				})
			})

			r.Post("/admin/reset-routine-tasks", app.adminHandler.ResetRoutineTasks)
		})
	})

	return r
}

// health reports liveness and database connectivity.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, map[string]string{"status": "ok"}, "healthy")
}
