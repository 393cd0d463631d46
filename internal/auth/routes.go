package auth

import (
	"net/http"

	"github.com/VoterDesk/VD-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	fetcher := SessionInfo{}

	r.With(middleware.LoginRateLimit()).Post("/auth", LoginHandler)
	r.Post("/logout", LogoutHandler)
	r.Post("/users", CreateUserHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(fetcher))
		r.Use(middleware.RequireRole(fetcher, RoleAdmin))
		r.Get("/users", ListUsersHandler)
	})

	return r
}
