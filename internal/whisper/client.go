package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultBinary is the engine executable resolved from PATH when no
// override is configured.
const DefaultBinary = "whisper-ctranslate2"

// Options captures runtime settings for engine invocations.
type Options struct {
	// Binary overrides the engine executable.
	Binary string
	// Model is the Whisper model size (e.g. "small", "large-v3").
	Model string
	// ComputeType selects the CTranslate2 quantization (e.g. "int8_float16").
	ComputeType string
	// Language forces a transcription language; empty means auto-detect.
	Language string
	// BeamSize overrides decode beam size; zero uses the engine default.
	BeamSize int
	// VADFilter enables voice activity detection.
	VADFilter bool
}

// Client invokes the engine binary.
type Client struct {
	opts          Options
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewClient creates an engine client with the given options.
func NewClient(opts Options) *Client {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	return &Client{opts: opts}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

// Binary returns the engine executable name.
func (c *Client) Binary() string {
	return c.opts.Binary
}

// Model returns the configured model name for logging.
func (c *Client) Model() string {
	return c.opts.Model
}

// Transcribe runs the engine on source and returns the parsed segments.
// outputDir receives the engine's transcript files and must be writable;
// callers normally pass a per-run temp directory and discard it afterward.
func (c *Client) Transcribe(ctx context.Context, source, outputDir string) ([]Segment, error) {
	if source == "" {
		return nil, fmt.Errorf("transcribe: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := c.buildArgs(source, outputDir)
	if err := c.run(ctx, c.opts.Binary, args...); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load transcript: %w", err)
	}
	return segments, nil
}

// buildArgs constructs the whisper-ctranslate2 argument list.
func (c *Client) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 16)
	args = append(args,
		source,
		"--model", c.opts.Model,
		"--compute_type", c.opts.ComputeType,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--verbose", "False",
	)
	if lang := strings.TrimSpace(c.opts.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if c.opts.BeamSize > 0 {
		args = append(args, "--beam_size", strconv.Itoa(c.opts.BeamSize))
	}
	// The engine exposes python-style booleans on its CLI.
	if c.opts.VADFilter {
		args = append(args, "--vad_filter", "True")
	} else {
		args = append(args, "--vad_filter", "False")
	}
	return args
}

// run executes a command, using the custom runner if set.
func (c *Client) run(ctx context.Context, name string, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
