package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"stemsplit/internal/services"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	inputPath  string
	outputDir  string
}

// fakeToolScript mimics the tool interface both backends share: it finds
// the directory after -o and drops two stem files into it.
const fakeToolScript = `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
mkdir -p "$out"
: > "$out/vocals.wav"
: > "$out/no_vocals.wav"
`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts are not executable on windows")
	}

	base := t.TempDir()
	binary := filepath.Join(base, "fake-tool")
	if err := os.WriteFile(binary, []byte(fakeToolScript), 0o755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}

	input := filepath.Join(base, "song.wav")
	if err := os.WriteFile(input, []byte("riff"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	outputDir := filepath.Join(base, "stems")
	configPath := filepath.Join(base, "config.toml")
	configBody := fmt.Sprintf(`[paths]
output_dir = %q
work_dir = %q
log_dir = %q
model_cache_dir = %q

[spleeter]
binary = %q

[demucs]
binary = %q

[history]
enabled = true
max_runs = 50

[logging]
format = "json"
level = "warn"
`,
		outputDir,
		filepath.Join(base, "work"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "cache"),
		binary,
		binary,
	)
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		inputPath:  input,
		outputDir:  outputDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	return runCLIContext(t, context.Background(), args, configPath)
}

func runCLIContext(t *testing.T, ctx context.Context, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestSeparateProducesStemFiles(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"separate", "--tool", "demucs", "--input", env.inputPath,
	}, env.configPath)
	if err != nil {
		t.Fatalf("separate: %v", err)
	}
	requireContains(t, out, "Separated with demucs")

	stemDir := filepath.Join(env.outputDir, "demucs")
	for _, name := range []string{"vocals.wav", "no_vocals.wav"} {
		if _, err := os.Stat(filepath.Join(stemDir, name)); err != nil {
			t.Fatalf("expected stem %s: %v", name, err)
		}
	}
}

func TestSeparateRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{
		"separate", "-t", "spleeter", "-i", env.inputPath,
	}, env.configPath); err != nil {
		t.Fatalf("separate: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, `"tool": "spleeter"`)
	requireContains(t, out, `"status": "completed"`)
}

func TestSeparateUnknownToolIsUsageError(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"separate", "--tool", "umx", "--input", env.inputPath,
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitUsage {
		t.Fatalf("expected exit %d, got %d", services.ExitUsage, services.ExitCode(err))
	}
}

func TestSeparateMissingInputCreatesNothing(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"separate", "-t", "demucs", "-i", filepath.Join(env.baseDir, "missing.wav"),
	}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(env.outputDir, "demucs")); !os.IsNotExist(statErr) {
		t.Fatal("output directory must not exist after a rejected run")
	}
}

func TestSeparateStopsOnCancelledContext(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := runCLIContext(t, ctx, []string{
		"separate", "-t", "demucs", "-i", env.inputPath,
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation surfaced, got %v", err)
	}
}

func TestSeparateModelFlagRejectedForSpleeter(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"separate", "-t", "spleeter", "-i", env.inputPath, "--model", "htdemucs",
	}, env.configPath)
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSeparateInvalidStemsFailsValidation(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"separate", "-t", "spleeter", "-i", env.inputPath, "--stems", "3",
	}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitUsage {
		t.Fatalf("expected exit %d, got %d", services.ExitUsage, services.ExitCode(err))
	}
}

func TestToolsReportsFakeBinaries(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"tools", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	requireContains(t, out, `"name": "spleeter"`)
	requireContains(t, out, `"available": true`)
}

func TestHistoryClear(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{
		"separate", "-t", "demucs", "-i", env.inputPath,
	}, env.configPath); err != nil {
		t.Fatalf("separate: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "History cleared")

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No recorded runs")
}

func TestConfigInitCreatesSample(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error when file already exists")
	}
}

func TestConfigShowListsSettings(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "default_tool")
	requireContains(t, out, "demucs.model")
}

func TestConfigPathPrintsResolvedPath(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "path"}, env.configPath)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, env.configPath)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "stemsplit")
}
