package webui

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subgen/internal/config"
	"subgen/internal/generate"
	"subgen/internal/logging"
	"subgen/internal/media"
	"subgen/internal/runlog"
)

//go:embed templates/index.html
var indexHTML string

const recentRunLimit = 10

// Server hosts the web form and JSON API.
type Server struct {
	cfg    *config.Config
	svc    *generate.Service
	store  *runlog.Store
	logger *slog.Logger
	tmpl   *template.Template

	listener net.Listener
	server   *http.Server
}

// New constructs the web server. store may be nil; history views then
// render empty.
func New(cfg *config.Config, svc *generate.Service, store *runlog.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil || svc == nil {
		return nil, errors.New("webui requires config and generate service")
	}
	tmpl, err := template.New("index").Funcs(template.FuncMap{
		"base": filepath.Base,
	}).Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	srv := &Server{
		cfg:    cfg,
		svc:    svc,
		store:  store,
		logger: logging.WithComponent(logger, "webui"),
		tmpl:   tmpl,
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/api/status", s.requireToken(s.handleAPIStatus))
	mux.HandleFunc("/api/generate", s.requireToken(s.handleAPIGenerate))
	mux.HandleFunc("/api/runs", s.requireToken(s.handleAPIRuns))
	mux.HandleFunc("/api/runs/", s.requireToken(s.handleAPIRun))
	return mux
}

// Start begins listening and serving until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Web.Bind)
	if err != nil {
		return fmt.Errorf("web listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Web.Bind
	}
	return s.listener.Addr().String()
}

// pageData feeds the index template.
type pageData struct {
	BaseDir     string
	Directories []string
	Recursive   bool
	Overwrite   bool
	Warnings    []string
	Summary     *generate.Summary
	Recent      []runlog.Run
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.renderPage(w, r, pageData{
		Recursive: s.cfg.Scan.Recursive,
		Overwrite: s.cfg.Scan.Overwrite,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	selected := append([]string(nil), r.PostForm["directories"]...)
	if extra := strings.TrimSpace(r.PostFormValue("extra_path")); extra != "" {
		selected = append(selected, extra)
	}
	recursive := config.ParseFlag(r.PostFormValue("recursive"))
	overwrite := config.ParseFlag(r.PostFormValue("overwrite"))

	page := pageData{Recursive: recursive, Overwrite: overwrite}

	if len(selected) == 0 {
		page.Warnings = append(page.Warnings, "Select at least one directory to process.")
		s.renderPage(w, r, page)
		return
	}
	var missing []string
	for _, path := range selected {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			missing = append(missing, path)
			continue
		}
		if _, err := os.Stat(expanded); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		page.Warnings = append(page.Warnings,
			fmt.Sprintf("The following paths do not exist: %s", strings.Join(missing, ", ")))
		s.renderPage(w, r, page)
		return
	}

	summary, err := s.svc.Run(r.Context(), generate.Request{
		Roots:     selected,
		Recursive: recursive,
		Overwrite: overwrite,
	})
	switch {
	case errors.Is(err, generate.ErrBusy):
		page.Warnings = append(page.Warnings, "A generation run is already in progress.")
	case err != nil:
		page.Warnings = append(page.Warnings, fmt.Sprintf("Generation failed: %v", err))
	default:
		page.Summary = summary
	}
	s.renderPage(w, r, page)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, page pageData) {
	page.BaseDir = s.cfg.Paths.BaseDir
	dirs, err := media.ListSubdirectories(s.cfg.Paths.BaseDir)
	if err != nil {
		s.logger.Warn("list base directory failed", logging.Error(err))
	}
	page.Directories = dirs
	if s.store != nil {
		recent, err := s.store.ListRuns(r.Context(), recentRunLimit)
		if err != nil {
			s.logger.Warn("list runs failed", logging.Error(err))
		}
		page.Recent = recent
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, page); err != nil {
		s.logger.Error("render template failed", logging.Error(err))
	}
}
