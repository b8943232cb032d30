package server

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/versele/versele-api/internal/docstore"
	"github.com/versele/versele-api/internal/guess"
	"github.com/versele/versele-api/internal/verse"
	"github.com/versele/versele-api/pkg/config"
)

type Server struct {
	port    string
	store   docstore.Store
	verses  *verse.Service
	guesses *guess.Service
	handler http.Handler
}

// NewServer constructs the app server with all dependencies injected.
func NewServer(store docstore.Store, cfg *config.Config) *Server {
	s := &Server{
		port:    cfg.Port,
		store:   store,
		verses:  verse.NewService(store),
		guesses: guess.NewService(store),
	}
	s.handler = s.RegisterRoutes()
	return s
}

// HTTPServer returns the actual *http.Server instance
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
