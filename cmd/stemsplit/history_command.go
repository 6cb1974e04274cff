package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stemsplit/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past separation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}

			if jsonOutput {
				type historyRun struct {
					ID           string   `json:"id"`
					Tool         string   `json:"tool"`
					Model        string   `json:"model"`
					InputPath    string   `json:"input_path"`
					OutputDir    string   `json:"output_dir"`
					Stems        []string `json:"stems,omitempty"`
					Status       string   `json:"status"`
					ErrorMessage string   `json:"error,omitempty"`
					StartedAt    string   `json:"started_at"`
					DurationSecs float64  `json:"duration_seconds,omitempty"`
				}
				payload := make([]historyRun, 0, len(runs))
				for _, run := range runs {
					payload = append(payload, historyRun{
						ID:           run.ID,
						Tool:         run.Tool,
						Model:        run.Model,
						InputPath:    run.InputPath,
						OutputDir:    run.OutputDir,
						Stems:        run.Stems,
						Status:       string(run.Status),
						ErrorMessage: run.ErrorMessage,
						StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
						DurationSecs: run.Duration().Seconds(),
					})
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				duration := ""
				if d := run.Duration(); d > 0 {
					duration = d.Round(time.Second).String()
				}
				rows = append(rows, []string{
					shortID(run.ID),
					run.Tool,
					run.Model,
					string(run.Status),
					strconv.Itoa(len(run.Stems)),
					duration,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.InputPath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Tool", "Model", "Status", "Stems", "Duration", "Started", "Input"},
				rows,
				4, 5,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
