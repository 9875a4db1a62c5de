package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"subgen/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the engine binary, directories, and free space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			checks := preflight.Run(cfg)
			if jsonOut {
				return writeJSON(cmd, checks)
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Engine", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintf(stdout, "%sBinary:       %s\n", statusIndent, cfg.WhisperBinary())
			fmt.Fprintf(stdout, "%sModel:        %s\n", statusIndent, cfg.Whisper.Model)
			fmt.Fprintf(stdout, "%sCompute type: %s\n", statusIndent, cfg.Whisper.ComputeType)
			fmt.Fprintf(stdout, "%sLanguage:     %s\n", statusIndent, describeLanguage(cfg.Whisper.Language))
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(stdout, line)
			}
			failed := 0
			for _, check := range checks {
				if !check.Passed {
					failed++
				}
				fmt.Fprintln(stdout, renderCheckLine(check.Name, check.Passed, check.Detail, colorize))
			}
			fmt.Fprintln(stdout)

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(checks))
			}
			fmt.Fprintln(stdout, "All checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit check results as JSON")
	return cmd
}

// describeLanguage renders the configured language with its English name,
// e.g. "de (German)". Empty means the engine auto-detects.
func describeLanguage(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "auto-detect"
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return trimmed
	}
	return fmt.Sprintf("%s (%s)", trimmed, name)
}
