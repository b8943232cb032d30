package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/versele/versele-api/internal/guess"
	"github.com/versele/versele-api/internal/verse"
	"github.com/versele/versele-api/pkg/response"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	verseHandler := verse.NewHandler(s.verses)
	guessHandler := guess.NewHandler(s.guesses)

	r.Get("/", s.HealthHandler)
	r.Get("/today", verseHandler.TodayHandler)
	r.Get("/get_guess_count", guessHandler.GetCountHandler)
	r.Get("/set_guess_count", guessHandler.SetCountHandler)

	return r
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
