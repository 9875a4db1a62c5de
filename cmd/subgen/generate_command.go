package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"subgen/internal/generate"
	"subgen/internal/runlog"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		noRecursive bool
		overwrite   bool
		model       string
		computeType string
		langFlag    string
		beamSize    int
		vadFilter   bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:     "generate <directory> [directory...]",
		Aliases: []string{"gen"},
		Short:   "Scan directories and write .srt files next to media files",
		Long: `Scan the given directories for media files and transcribe each one,
writing an .srt subtitle file next to its source. Files that already
have a subtitle are skipped unless --overwrite is set, and a failure on
one file never stops the rest of the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if noRecursive {
				cfg.Scan.Recursive = false
			}
			if overwrite {
				cfg.Scan.Overwrite = true
			}
			if cmd.Flags().Changed("model-size") {
				cfg.Whisper.Model = model
			}
			if cmd.Flags().Changed("compute-type") {
				cfg.Whisper.ComputeType = computeType
			}
			if cmd.Flags().Changed("language") {
				cfg.Whisper.Language = langFlag
			}
			if cmd.Flags().Changed("beam-size") {
				cfg.Whisper.BeamSize = beamSize
			}
			if cmd.Flags().Changed("vad-filter") {
				cfg.Whisper.VADFilter = vadFilter
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := ctx.newLogger(jsonOut)
			store, err := runlog.Open(&cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			svc := generate.NewService(&cfg, generate.NewEngine(&cfg), store, logger)
			summary, err := svc.Run(cmd.Context(), generate.Request{
				Roots:     args,
				Recursive: cfg.Scan.Recursive,
				Overwrite: cfg.Scan.Overwrite,
			})
			if errors.Is(err, generate.ErrBusy) {
				return errors.New("another generation run is already in progress")
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, summaryPayload(summary))
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "Disable scanning of subdirectories")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing subtitle files")
	cmd.Flags().StringVar(&model, "model-size", "", "Whisper model size (e.g. small, large-v3)")
	cmd.Flags().StringVar(&computeType, "compute-type", "", "CTranslate2 compute type (e.g. int8_float16)")
	cmd.Flags().StringVar(&langFlag, "language", "", "Force a transcription language (empty auto-detects)")
	cmd.Flags().IntVar(&beamSize, "beam-size", 0, "Decode beam size")
	cmd.Flags().BoolVar(&vadFilter, "vad-filter", true, "Filter silence with voice activity detection")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run summary as JSON")

	return cmd
}

func printSummary(cmd *cobra.Command, summary *generate.Summary) {
	stdout := cmd.OutOrStdout()

	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		rows = append(rows, []string{
			result.Source,
			string(result.Outcome()),
			result.Message,
		})
	}
	fmt.Fprintln(stdout, renderTable([]string{"File", "Status", "Message"}, rows))
	fmt.Fprintf(stdout, "%d created, %d skipped, %d failed in %s\n",
		summary.Created, summary.Skipped, summary.Failed, summary.Duration.Round(time.Millisecond))
}

type summaryJSON struct {
	RunID     string              `json:"run_id,omitempty"`
	Created   int                 `json:"created"`
	Skipped   int                 `json:"skipped"`
	Failed    int                 `json:"failed"`
	ElapsedMS int64               `json:"elapsed_ms"`
	Results   []summaryResultJSON `json:"results"`
}

type summaryResultJSON struct {
	Source  string `json:"source"`
	Output  string `json:"output,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func summaryPayload(summary *generate.Summary) summaryJSON {
	payload := summaryJSON{
		RunID:     summary.RunID,
		Created:   summary.Created,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
		ElapsedMS: summary.Duration.Milliseconds(),
		Results:   make([]summaryResultJSON, 0, len(summary.Results)),
	}
	for _, result := range summary.Results {
		payload.Results = append(payload.Results, summaryResultJSON{
			Source:  result.Source,
			Output:  result.Output,
			Status:  string(result.Outcome()),
			Message: result.Message,
		})
	}
	return payload
}
