package webui

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"subgen/internal/generate"
	"subgen/internal/logging"
	"subgen/internal/preflight"
	"subgen/internal/runlog"
)

const defaultRunListLimit = 50

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Engine      string           `json:"engine"`
	Model       string           `json:"model"`
	ComputeType string           `json:"compute_type"`
	Language    string           `json:"language,omitempty"`
	BaseDir     string           `json:"base_dir"`
	Checks      []statusCheck    `json:"checks"`
	RecentRuns  []runlogResponse `json:"recent_runs"`
}

type statusCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

type generateRequest struct {
	Directories []string `json:"directories"`
	Recursive   *bool    `json:"recursive,omitempty"`
	Overwrite   *bool    `json:"overwrite,omitempty"`
}

type generateResponse struct {
	RunID     string           `json:"run_id,omitempty"`
	Created   int              `json:"created"`
	Skipped   int              `json:"skipped"`
	Failed    int              `json:"failed"`
	ElapsedMS int64            `json:"elapsed_ms"`
	Results   []resultResponse `json:"results"`
}

type resultResponse struct {
	Source  string `json:"source"`
	Output  string `json:"output,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type runlogResponse struct {
	ID         string   `json:"id"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
	Roots      []string `json:"roots"`
	Recursive  bool     `json:"recursive"`
	Overwrite  bool     `json:"overwrite"`
	Created    int      `json:"created"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
}

type runDetailResponse struct {
	runlogResponse
	Results []resultResponse `json:"results"`
}

// requireToken enforces bearer auth on API routes when a token is
// configured. The HTML form stays open either way.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.cfg.Web.APIToken
		if token == "" {
			next(w, r)
			return
		}
		supplied := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := statusResponse{
		Engine:      s.cfg.WhisperBinary(),
		Model:       s.cfg.Whisper.Model,
		ComputeType: s.cfg.Whisper.ComputeType,
		Language:    s.cfg.Whisper.Language,
		BaseDir:     s.cfg.Paths.BaseDir,
		RecentRuns:  []runlogResponse{},
	}
	for _, check := range preflight.Run(s.cfg) {
		resp.Checks = append(resp.Checks, statusCheck{Name: check.Name, Passed: check.Passed, Detail: check.Detail})
	}
	if s.store != nil {
		runs, err := s.store.ListRuns(r.Context(), recentRunLimit)
		if err != nil {
			s.logger.Warn("list runs failed", logging.Error(err))
		}
		for _, run := range runs {
			resp.RecentRuns = append(resp.RecentRuns, toRunResponse(run))
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Directories) == 0 {
		s.writeError(w, http.StatusBadRequest, "directories is required")
		return
	}

	recursive := s.cfg.Scan.Recursive
	if req.Recursive != nil {
		recursive = *req.Recursive
	}
	overwrite := s.cfg.Scan.Overwrite
	if req.Overwrite != nil {
		overwrite = *req.Overwrite
	}

	summary, err := s.svc.Run(r.Context(), generate.Request{
		Roots:     req.Directories,
		Recursive: recursive,
		Overwrite: overwrite,
	})
	switch {
	case errors.Is(err, generate.ErrBusy):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := generateResponse{
		RunID:     summary.RunID,
		Created:   summary.Created,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
		ElapsedMS: summary.Duration.Milliseconds(),
		Results:   []resultResponse{},
	}
	for _, result := range summary.Results {
		resp.Results = append(resp.Results, resultResponse{
			Source:  result.Source,
			Output:  result.Output,
			Status:  string(result.Outcome()),
			Message: result.Message,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, []runlogResponse{})
		return
	}
	limit := defaultRunListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]runlogResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	results, err := s.store.ResultsForRun(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := runDetailResponse{runlogResponse: toRunResponse(*run), Results: []resultResponse{}}
	for _, result := range results {
		resp.Results = append(resp.Results, resultResponse{
			Source:  result.Source,
			Output:  result.Output,
			Status:  string(result.Status),
			Message: result.Message,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func toRunResponse(run runlog.Run) runlogResponse {
	resp := runlogResponse{
		ID:        run.ID,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
		Roots:     run.Roots,
		Recursive: run.Recursive,
		Overwrite: run.Overwrite,
		Created:   run.Created,
		Skipped:   run.Skipped,
		Failed:    run.Failed,
	}
	if run.Finished() {
		resp.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
