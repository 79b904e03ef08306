// Package server runs the preview server: it serves the generated deck,
// applies toolbar toggles server-side so they survive reloads, rebuilds on
// project changes and pushes live-reload events over a websocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cardpress/cardpress/internal/buildlog"
	"github.com/cardpress/cardpress/internal/generator"
	"github.com/cardpress/cardpress/internal/progress"
	"github.com/cardpress/cardpress/internal/view"
	"github.com/cardpress/cardpress/internal/warning"
)

// Config holds preview server configuration.
type Config struct {
	Host        string
	Port        int
	ProjectRoot string
	OutputDir   string // directory containing the generated deck
	Watch       bool   // rebuild when project files change
	AllowAll    bool   // allow all CORS origins (dev mode)
	Verbose     bool
	Version     string

	// Generation settings applied on rebuilds, mirroring `cardpress make`.
	Datasources     []string
	Patterns        []string
	DefinitionsPath string
	DefaultSize     string
	ForcePageBreaks bool
	DisableBacks    bool
}

// Server is the cardpress preview server.
type Server struct {
	cfg        Config
	builds     *buildlog.Log
	router     chi.Router
	httpServer *http.Server

	// docMu serializes reads and writes of the generated document, which
	// both toggles and rebuilds mutate.
	docMu sync.Mutex

	clientsMu sync.Mutex
	clients   map[chan string]bool
}

// New creates a preview server. The build log may be nil, in which case
// rebuilds are not recorded.
func New(cfg Config, builds *buildlog.Log) *Server {
	s := &Server{
		cfg:     cfg,
		builds:  builds,
		clients: map[chan string]bool{},
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/stats", s.handleStats)
	r.Post("/api/toggle", s.handleToggle)
	r.Post("/api/rebuild", s.handleRebuild)
	r.Get("/api/builds", s.handleBuilds)
	r.Get("/ws", s.handleWebSocket)

	// Static deck files after the API routes.
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.OutputDir)))

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) indexPath() string {
	return filepath.Join(s.cfg.OutputDir, "index.html")
}

// loadView parses the generated document. Callers must hold docMu.
func (s *Server) loadView() (*view.View, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		return nil, fmt.Errorf("reading generated deck: %w", err)
	}
	return view.ParseString(string(data))
}

// saveView writes the mutated document back. Callers must hold docMu.
func (s *Server) saveView(v *view.View) error {
	html, err := v.HTML()
	if err != nil {
		return fmt.Errorf("serializing deck: %w", err)
	}
	if err := os.WriteFile(s.indexPath(), []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}
	return nil
}

type statsResponse struct {
	Cards int `json:"cards"`
	Pages int `json:"pages"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	v, err := s.loadView()
	if err != nil {
		writeError(w, http.StatusNotFound, "deck not generated yet")
		return
	}
	stats := v.UpdatePageNumbers()
	writeJSON(w, statsResponse{Cards: stats.Cards, Pages: stats.Pages})
}

type toggleRequest struct {
	Action string `json:"action"`
}

type toggleResponse struct {
	Action string `json:"action"`
	State  string `json:"state"`
	Cards  int    `json:"cards"`
	Pages  int    `json:"pages"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.docMu.Lock()
	defer s.docMu.Unlock()

	v, err := s.loadView()
	if err != nil {
		writeError(w, http.StatusNotFound, "deck not generated yet")
		return
	}

	var state string
	switch req.Action {
	case "footer":
		state = v.ToggleFooter()
	case "cut-guides":
		state = v.ToggleCutGuides()
	case "card-backs":
		state = v.ToggleCardBacks()
	case "two-sided":
		state = v.ToggleTwoSided()
	default:
		writeError(w, http.StatusBadRequest, "unknown action "+req.Action)
		return
	}

	stats := v.UpdatePageNumbers()
	if err := s.saveView(v); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.broadcast("reload")
	writeJSON(w, toggleResponse{Action: req.Action, State: state, Cards: stats.Cards, Pages: stats.Pages})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	result, err := s.rebuild(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, statsResponse{Cards: result.Cards, Pages: result.Pages})
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	if s.builds == nil {
		writeJSON(w, []buildlog.Build{})
		return
	}
	builds, err := s.builds.Recent(20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if builds == nil {
		builds = []buildlog.Build{}
	}
	writeJSON(w, builds)
}

// Rebuild regenerates the deck and records the run.
func (s *Server) Rebuild(ctx context.Context) (*generator.Result, error) {
	return s.rebuild(ctx)
}

func (s *Server) rebuild(ctx context.Context) (*generator.Result, error) {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	result, err := generator.Generate(ctx, generator.Options{
		ProjectRoot:     s.cfg.ProjectRoot,
		OutputPath:      s.cfg.OutputDir,
		Datasources:     s.cfg.Datasources,
		Patterns:        s.cfg.Patterns,
		DefinitionsPath: s.cfg.DefinitionsPath,
		DefaultSize:     s.cfg.DefaultSize,
		ForcePageBreaks: s.cfg.ForcePageBreaks,
		DisableBacks:    s.cfg.DisableBacks,
		Version:         s.cfg.Version,
		Display:         warning.NewDisplay(s.cfg.Verbose),
		Reporter:        progress.NullReporter{},
	})
	if err != nil {
		return nil, err
	}

	if s.builds != nil {
		_, recordErr := s.builds.Record(buildlog.Build{
			Datasources: result.Datasources,
			InputHash:   buildlog.HashInputs(result.Datasources),
			Cards:       result.Cards,
			Pages:       result.Pages,
			Warnings:    result.Warnings,
			Errors:      result.Errors,
			Duration:    result.Duration,
		})
		if recordErr != nil {
			log.Printf("server: recording build: %v", recordErr)
		}
	}
	return result, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Start begins listening on the configured host and port. When watching is
// enabled it also starts the filesystem watcher.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Watch {
		if err := s.watch(ctx); err != nil {
			return err
		}
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("cardpress preview listening on http://%s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
