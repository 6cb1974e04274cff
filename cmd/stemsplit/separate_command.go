package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stemsplit/internal/config"
	"stemsplit/internal/history"
	"stemsplit/internal/separate"
	"stemsplit/internal/services"
)

type separateFlags struct {
	tool        string
	input       string
	output      string
	stems       int
	model       string
	format      string
	bitrate     string
	device      string
	jobs        int
	keepPartial bool
	noHistory   bool
}

func newSeparateCommand(ctx *commandContext) *cobra.Command {
	var flags separateFlags

	cmd := &cobra.Command{
		Use:   "separate",
		Short: "Split an audio file into stems",
		Long: `Split an audio file into stems using the selected backend.

The backend binary must already be installed; run "stemsplit tools" to
check availability. The first run per model downloads pretrained weights
into the model cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			toolName := strings.TrimSpace(flags.tool)
			if toolName == "" {
				toolName = cfg.Separation.DefaultTool
			}
			tool, err := separate.ParseTool(toolName)
			if err != nil {
				return err
			}

			// Flag overrides apply to a copy so the loaded config stays
			// untouched for any later command in the same process.
			runCfg := *cfg
			if err := applyOverrides(&runCfg, tool, &flags, cmd); err != nil {
				return err
			}
			if err := runCfg.Validate(); err != nil {
				return services.Wrap(services.ErrValidation, tool.String(), "", "", err)
			}

			outputDir := strings.TrimSpace(flags.output)
			if outputDir == "" {
				outputDir = filepath.Join(runCfg.Paths.OutputDir, tool.String())
			}

			logger := ctx.ensureLogger()

			var store *history.Store
			if runCfg.History.Enabled && !flags.noHistory {
				store, err = history.Open(&runCfg)
				if err != nil {
					logger.Warn("history unavailable", "error", err)
				} else {
					defer store.Close()
				}
			}

			runner := separate.NewRunner(&runCfg, logger, store)
			result, err := runner.Run(cmd.Context(), separate.Request{
				Tool:        tool,
				InputPath:   flags.input,
				OutputDir:   outputDir,
				KeepPartial: flags.keepPartial,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Separated with %s (%s)\n", result.Tool, result.Model)
			for _, name := range result.Stems.Names() {
				fmt.Fprintf(out, "  %s -> %s\n", name, result.Stems[name])
			}
			fmt.Fprintf(out, "Output directory: %s\n", result.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.tool, "tool", "t", "", "Separation backend: spleeter or demucs (default from config)")
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Audio file to separate")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (default <output_dir>/<tool>)")
	cmd.Flags().IntVar(&flags.stems, "stems", 0, "Number of stems to produce")
	cmd.Flags().StringVar(&flags.model, "model", "", "Pretrained model name (demucs only)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output audio format")
	cmd.Flags().StringVar(&flags.bitrate, "bitrate", "", "Bitrate for compressed output, e.g. 320k")
	cmd.Flags().StringVar(&flags.device, "device", "", "Compute device for demucs: cpu or cuda")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "Parallel jobs for demucs")
	cmd.Flags().BoolVar(&flags.keepPartial, "keep-partial", false, "Keep the output directory when the run fails")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Skip recording this run in history")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// applyOverrides folds command-line flags into the per-run config copy.
// Only flags the user actually set are applied; zero values from unset
// flags must not clobber configured values.
func applyOverrides(cfg *config.Config, tool separate.Tool, flags *separateFlags, cmd *cobra.Command) error {
	if cmd.Flags().Changed("stems") {
		switch tool {
		case separate.ToolSpleeter:
			cfg.Spleeter.Stems = flags.stems
		case separate.ToolDemucs:
			cfg.Demucs.Stems = flags.stems
		}
	}
	if cmd.Flags().Changed("model") {
		if tool != separate.ToolDemucs {
			return services.Wrap(services.ErrUsage, tool.String(), "",
				"--model applies to demucs only; spleeter models are selected via --stems", nil)
		}
		cfg.Demucs.Model = flags.model
	}
	if cmd.Flags().Changed("format") {
		switch tool {
		case separate.ToolSpleeter:
			cfg.Spleeter.Codec = flags.format
		case separate.ToolDemucs:
			cfg.Demucs.Format = flags.format
		}
	}
	if cmd.Flags().Changed("bitrate") {
		switch tool {
		case separate.ToolSpleeter:
			cfg.Spleeter.Bitrate = flags.bitrate
		case separate.ToolDemucs:
			value, err := parseBitrate(flags.bitrate)
			if err != nil {
				return err
			}
			cfg.Demucs.MP3Bitrate = value
		}
	}
	if cmd.Flags().Changed("device") {
		if tool != separate.ToolDemucs {
			return services.Wrap(services.ErrUsage, tool.String(), "", "--device applies to demucs only", nil)
		}
		cfg.Demucs.Device = flags.device
	}
	if cmd.Flags().Changed("jobs") {
		if tool != separate.ToolDemucs {
			return services.Wrap(services.ErrUsage, tool.String(), "", "--jobs applies to demucs only", nil)
		}
		cfg.Demucs.Jobs = flags.jobs
	}
	return nil
}

// parseBitrate accepts "320k" or "320" and returns the numeric kbit/s value.
func parseBitrate(value string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "k")
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return 0, services.Wrap(services.ErrUsage, "", "",
			"invalid bitrate "+strconv.Quote(value)+" (expected e.g. 320k)", nil)
	}
	return parsed, nil
}
