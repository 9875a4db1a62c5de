package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subgen/internal/runlog"
)

const runTimeLayout = "2006-01-02 15:04:05"

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show generation run history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return showRunDetail(cmd, store, args[0], jsonOut)
			}
			return showRunList(cmd, store, limit, jsonOut)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit run history as JSON")
	return cmd
}

func showRunList(cmd *cobra.Command, store *runlog.Store, limit int, jsonOut bool) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(cmd, runs)
	}

	stdout := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if run.Finished() {
			finished = run.FinishedAt.Local().Format(runTimeLayout)
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(runTimeLayout),
			finished,
			strings.Join(run.Roots, ", "),
			strconv.Itoa(run.Created),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
		})
	}
	fmt.Fprintln(stdout, renderTable(
		[]string{"ID", "Started", "Finished", "Directories", "Created", "Skipped", "Failed"},
		rows, 4, 5, 6))
	return nil
}

func showRunDetail(cmd *cobra.Command, store *runlog.Store, id string, jsonOut bool) error {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}
	results, err := store.ResultsForRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOut {
		return writeJSON(cmd, struct {
			Run     runlog.Run          `json:"run"`
			Results []runlog.FileResult `json:"results"`
		}{Run: *run, Results: results})
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Run %s\n", run.ID)
	fmt.Fprintf(stdout, "  Started:     %s\n", run.StartedAt.Local().Format(runTimeLayout))
	if run.Finished() {
		fmt.Fprintf(stdout, "  Finished:    %s (%s)\n",
			run.FinishedAt.Local().Format(runTimeLayout),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	} else {
		fmt.Fprintln(stdout, "  Finished:    still running")
	}
	fmt.Fprintf(stdout, "  Directories: %s\n", strings.Join(run.Roots, ", "))
	fmt.Fprintf(stdout, "  Recursive:   %s\n", yesNo(run.Recursive))
	fmt.Fprintf(stdout, "  Overwrite:   %s\n", yesNo(run.Overwrite))
	fmt.Fprintf(stdout, "  Totals:      %d created, %d skipped, %d failed\n\n",
		run.Created, run.Skipped, run.Failed)

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{result.Source, string(result.Status), result.Message})
	}
	fmt.Fprintln(stdout, renderTable([]string{"File", "Status", "Message"}, rows))
	return nil
}
