package spleeter

import (
	"context"
	"fmt"
	"strings"

	"stemsplit/internal/config"
	"stemsplit/internal/services"
)

// Name is the tool selector accepted by the CLI.
const Name = "spleeter"

// Service drives the spleeter binary for one separation run.
type Service struct {
	cfg    config.Spleeter
	runner services.CommandRunner
}

// NewService creates a Spleeter adapter with the given configuration.
func NewService(cfg config.Spleeter) *Service {
	return &Service{cfg: cfg, runner: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.runner = runner
}

// Model returns the pretrained model descriptor, e.g. "spleeter:4stems-16kHz".
func (s *Service) Model() string {
	descriptor := fmt.Sprintf("spleeter:%dstems", s.cfg.Stems)
	if s.cfg.SixteenKHz {
		descriptor += "-16kHz"
	}
	return descriptor
}

// Stems returns the configured stem count.
func (s *Service) Stems() int {
	return s.cfg.Stems
}

// Separate runs spleeter on input and writes stems into outputDir. Any
// failure from the tool aborts the run and is surfaced verbatim; there is
// no retry.
func (s *Service) Separate(ctx context.Context, input, outputDir, workDir, modelCacheDir string) error {
	args := s.buildArgs(input, outputDir)

	var env []string
	if modelCacheDir != "" {
		// Spleeter resolves pretrained model downloads through MODEL_PATH.
		env = append(env, "MODEL_PATH="+modelCacheDir)
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
		"separate",
		"-p", s.Model(),
		"-o", outputDir,
		"-c", s.cfg.Codec,
	}
	if s.cfg.Codec != "wav" {
		args = append(args, "-b", s.cfg.Bitrate)
	}
	args = append(args,
		"-f", "{instrument}."+s.cfg.Codec,
		input,
	)
	return args
}
