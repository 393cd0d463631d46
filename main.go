package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/VoterDesk/VD-Backend/internal/auth"
	"github.com/VoterDesk/VD-Backend/internal/cache"
	"github.com/VoterDesk/VD-Backend/internal/db"
	"github.com/VoterDesk/VD-Backend/internal/middleware"
	"github.com/VoterDesk/VD-Backend/internal/voters"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	voters.Init()

	// Redis is optional; the voters routes fall back to direct scans when nil.
	rdb := cache.NewRedisClient()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/api/voters", voters.SetupRoutes(rdb))
	r.Mount("/api", auth.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
