// Package api serves finished recordings over HTTP so container users can
// fetch files they cannot reach through the filesystem.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/demorec/internal/logger"
)

// Server is the recordings HTTP server.
type Server struct {
	router        *mux.Router
	recordingsDir string
	srv           *http.Server
	log           zerolog.Logger
}

// NewServer creates a server rooted at the recordings directory.
func NewServer(recordingsDir string) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		recordingsDir: recordingsDir,
		log:           *logger.WithComponent("api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/videos", s.handleListVideos).Methods("GET")
	s.router.PathPrefix("/videos/").Handler(
		http.StripPrefix("/videos/", http.FileServer(http.Dir(s.recordingsDir))))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// videoEntry describes one recording in the listing.
type videoEntry struct {
	Name     string    `json:"name"`
	SizeMB   float64   `json:"size_mb"`
	Modified time.Time `json:"modified"`
	URL      string    `json:"url"`
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.recordingsDir)
	if err != nil {
		http.Error(w, "recordings directory unavailable", http.StatusInternalServerError)
		return
	}

	videos := []videoEntry{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp4") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		videos = append(videos, videoEntry{
			Name:     e.Name(),
			SizeMB:   float64(info.Size()) / (1024 * 1024),
			Modified: info.ModTime(),
			URL:      "/videos/" + e.Name(),
		})
	}
	// Newest first.
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].Modified.After(videos[j].Modified)
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(videos)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving on the given port. Blocks until shutdown.
func (s *Server) Start(port int) error {
	if err := os.MkdirAll(s.recordingsDir, 0o755); err != nil {
		return fmt.Errorf("creating recordings dir: %w", err)
	}
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	s.log.Info().Int("port", port).
		Str("dir", filepath.Clean(s.recordingsDir)).
		Msg("recordings server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
