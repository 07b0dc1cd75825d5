package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lumen-app/lumen-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Entry routes
	r.Post("/api/entries", handlers.CreateEntry)
	r.Get("/api/entries", handlers.GetEntries)
	r.Put("/api/entries/{id}", handlers.UpdateEntry)
	r.Delete("/api/entries/{id}", handlers.DeleteEntry)

	// Photo attachment upload
	r.Post("/api/upload", handlers.UploadPhoto)

	// WebSocket endpoint for the live entry feed
	r.Get("/ws/entries", handlers.EntryFeed)
}
