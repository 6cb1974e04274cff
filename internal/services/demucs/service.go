package demucs

import (
	"context"
	"strconv"
	"strings"

	"stemsplit/internal/config"
	"stemsplit/internal/services"
)

// Name is the tool selector accepted by the CLI.
const Name = "demucs"

// Service drives the demucs binary for one separation run.
type Service struct {
	cfg    config.Demucs
	runner services.CommandRunner
}

// NewService creates a Demucs adapter with the given configuration.
func NewService(cfg config.Demucs) *Service {
	return &Service{cfg: cfg, runner: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.runner = runner
}

// Model returns the configured model name.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Stems returns the number of stems the run will produce.
func (s *Service) Stems() int {
	return s.cfg.Stems
}

// Separate runs demucs on input and writes stems under outputDir. Any
// failure from the tool aborts the run and is surfaced verbatim; there is
// no retry.
func (s *Service) Separate(ctx context.Context, input, outputDir, workDir, modelCacheDir string) error {
	args := s.buildArgs(input, outputDir)

	var env []string
	if modelCacheDir != "" {
		// Demucs fetches checkpoints through torch hub.
		env = append(env, "TORCH_HOME="+modelCacheDir)
	}

	output, err := s.runner(ctx, workDir, env, s.cfg.Binary, args...)
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = "separation failed"
		}
		return services.Wrap(services.ErrExternalTool, Name, "separate", detail, err)
	}
	return nil
}

func (s *Service) buildArgs(input, outputDir string) []string {
	args := []string{
		"-n", s.cfg.Model,
		"-o", outputDir,
		"-d", s.cfg.Device,
	}
	if s.cfg.Stems == 2 {
		args = append(args, "--two-stems", s.cfg.TwoStemTarget)
	}
	switch s.cfg.Format {
	case "mp3":
		args = append(args, "--mp3", "--mp3-bitrate", strconv.Itoa(s.cfg.MP3Bitrate))
	case "flac":
		args = append(args, "--flac")
	}
	if s.cfg.Jobs > 0 {
		args = append(args, "-j", strconv.Itoa(s.cfg.Jobs))
	}
	if s.cfg.Shifts > 0 {
		args = append(args, "--shifts", strconv.Itoa(s.cfg.Shifts))
	}
	if s.cfg.Overlap > 0 {
		args = append(args, "--overlap", strconv.FormatFloat(s.cfg.Overlap, 'f', -1, 64))
	}
	args = append(args, "--filename", "{stem}.{ext}", input)
	return args
}
