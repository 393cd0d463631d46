package voters

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes mounts the voters API. client may be nil; the booth directory
// then recomputes its scan on every call.
func SetupRoutes(client *redis.Client) http.Handler {
	rdb = client

	r := chi.NewRouter()

	r.Get("/", ListVotersHandler)
	r.Post("/", SaveVotersHandler)
	r.Get("/booths", BoothsHandler)
	r.Get("/stats", StatsHandler)
	r.Put("/{id}", UpdateVoterHandler)
	r.Delete("/{id}", DeleteVoterHandler)

	return r
}
