package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"subgen/internal/config"
	"subgen/internal/logging"
	"subgen/internal/media"
	"subgen/internal/runlog"
	"subgen/internal/subtitles"
	"subgen/internal/whisper"
)

// Result messages surfaced to the CLI table and the web results view.
const (
	MessageCreated   = "Subtitle created successfully."
	MessageExists    = "Subtitle already exists."
	MessageNoMedia   = "No media files detected."
	failedMessageFmt = "Failed to generate subtitle: %v"
)

// ErrBusy is returned when another generation run holds the lock.
var ErrBusy = errors.New("another generation run is in progress")

// Engine transcribes a single media file, leaving its transcript files in
// outputDir.
type Engine interface {
	Transcribe(ctx context.Context, source, outputDir string) ([]whisper.Segment, error)
}

// Request describes one pipeline invocation.
type Request struct {
	Roots     []string
	Recursive bool
	Overwrite bool
}

// Result is the outcome for a single media file (or, when a scan finds
// nothing, for a scanned root).
type Result struct {
	Source  string
	Output  string
	Created bool
	Message string
}

// Outcome maps the result onto the run history classification.
func (r Result) Outcome() runlog.Outcome {
	switch {
	case r.Created:
		return runlog.OutcomeCreated
	case r.Message == MessageExists || r.Message == MessageNoMedia:
		return runlog.OutcomeSkipped
	default:
		return runlog.OutcomeFailed
	}
}

// Summary aggregates a finished run.
type Summary struct {
	RunID    string
	Results  []Result
	Created  int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Service owns the pipeline dependencies.
type Service struct {
	cfg    *config.Config
	engine Engine
	store  *runlog.Store
	logger *slog.Logger
	lock   *flock.Flock
}

// NewService constructs the pipeline service. store may be nil to skip
// history recording; logger may be nil for silent operation.
func NewService(cfg *config.Config, engine Engine, store *runlog.Store, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		engine: engine,
		store:  store,
		logger: logging.WithComponent(logger, "generate"),
		lock:   flock.New(filepath.Join(cfg.Paths.LogDir, "generate.lock")),
	}
}

// NewEngine builds the whisper client from configuration.
func NewEngine(cfg *config.Config) *whisper.Client {
	return whisper.NewClient(whisper.Options{
		Binary:      cfg.Whisper.Binary,
		Model:       cfg.Whisper.Model,
		ComputeType: cfg.Whisper.ComputeType,
		Language:    cfg.Whisper.Language,
		BeamSize:    cfg.Whisper.BeamSize,
		VADFilter:   cfg.Whisper.VADFilter,
	})
}

// Run executes the pipeline for the requested roots.
func (s *Service) Run(ctx context.Context, req Request) (*Summary, error) {
	if len(req.Roots) == 0 {
		return nil, errors.New("at least one directory is required")
	}

	roots := make([]string, 0, len(req.Roots))
	for _, root := range req.Roots {
		expanded, err := config.ExpandPath(root)
		if err != nil {
			return nil, fmt.Errorf("expand root %q: %w", root, err)
		}
		roots = append(roots, expanded)
	}

	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire generation lock: %w", err)
	}
	if !locked {
		return nil, ErrBusy
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release generation lock", logging.Error(err))
		}
	}()

	started := time.Now()
	files, err := media.ScanAll(roots, req.Recursive)
	if err != nil {
		return nil, fmt.Errorf("scan directories: %w", err)
	}
	s.logger.Info("scan complete",
		logging.Int("roots", len(roots)),
		logging.Int("files", len(files)),
		logging.Bool("recursive", req.Recursive),
		logging.Bool("overwrite", req.Overwrite),
	)

	var runID string
	if s.store != nil {
		run, err := s.store.StartRun(ctx, roots, req.Recursive, req.Overwrite)
		if err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		runID = run.ID
	}

	summary := &Summary{RunID: runID}
	if len(files) == 0 {
		for _, root := range roots {
			s.record(ctx, summary, Result{Source: root, Message: MessageNoMedia})
		}
	} else {
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				s.finish(ctx, summary, started)
				return summary, err
			}
			s.record(ctx, summary, s.processFile(ctx, file, req.Overwrite))
		}
	}

	s.finish(ctx, summary, started)
	return summary, nil
}

// processFile handles one media file end to end. Errors become failed
// results rather than propagating so the remaining files still run.
func (s *Service) processFile(ctx context.Context, source string, overwrite bool) Result {
	output := media.SubtitlePath(source)
	if _, err := os.Stat(output); err == nil {
		if !overwrite {
			return Result{Source: source, Output: output, Message: MessageExists}
		}
		if err := os.Remove(output); err != nil {
			return s.failed(source, fmt.Errorf("remove existing subtitle: %w", err))
		}
	}

	workDir, err := os.MkdirTemp(s.cfg.Paths.WorkDir, "transcribe-")
	if err != nil {
		return s.failed(source, fmt.Errorf("create work directory: %w", err))
	}
	defer os.RemoveAll(workDir)

	runCtx := ctx
	if timeout := s.cfg.Whisper.TimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	transcribeStart := time.Now()
	segments, err := s.engine.Transcribe(runCtx, source, workDir)
	if err != nil {
		return s.failed(source, err)
	}

	cues := make([]subtitles.Cue, 0, len(segments))
	for _, seg := range segments {
		cues = append(cues, subtitles.Cue{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	if err := subtitles.WriteSRT(cues, output); err != nil {
		return s.failed(source, err)
	}

	s.logger.Info("subtitle created",
		logging.String("source", source),
		logging.String("output", output),
		logging.Int("segments", len(segments)),
		logging.Duration("elapsed", time.Since(transcribeStart)),
	)
	return Result{Source: source, Output: output, Created: true, Message: MessageCreated}
}

func (s *Service) failed(source string, err error) Result {
	s.logger.Error("transcription failed", logging.String("source", source), logging.Error(err))
	return Result{Source: source, Message: fmt.Sprintf(failedMessageFmt, err)}
}

func (s *Service) record(ctx context.Context, summary *Summary, result Result) {
	summary.Results = append(summary.Results, result)
	switch result.Outcome() {
	case runlog.OutcomeCreated:
		summary.Created++
	case runlog.OutcomeSkipped:
		summary.Skipped++
	default:
		summary.Failed++
	}
	if s.store == nil || summary.RunID == "" {
		return
	}
	err := s.store.AddResult(ctx, summary.RunID, runlog.FileResult{
		Source:  result.Source,
		Output:  result.Output,
		Status:  result.Outcome(),
		Message: result.Message,
	})
	if err != nil {
		s.logger.Warn("failed to record result", logging.String("source", result.Source), logging.Error(err))
	}
}

func (s *Service) finish(ctx context.Context, summary *Summary, started time.Time) {
	summary.Duration = time.Since(started)
	if s.store != nil && summary.RunID != "" {
		if err := s.store.FinishRun(ctx, summary.RunID); err != nil {
			s.logger.Warn("failed to finish run", logging.String("run", summary.RunID), logging.Error(err))
		}
	}
	s.logger.Info("run complete",
		logging.String("run", summary.RunID),
		logging.Int("created", summary.Created),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Duration),
	)
}
