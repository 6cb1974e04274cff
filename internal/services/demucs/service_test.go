package demucs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stemsplit/internal/config"
	"stemsplit/internal/services"
)

func testConfig() config.Demucs {
	return config.Default().Demucs
}

func TestBuildArgsFourStemWav(t *testing.T) {
	svc := NewService(testConfig())

	joined := strings.Join(svc.buildArgs("/music/song.mp3", "/out"), " ")
	for _, want := range []string{
		"-n htdemucs",
		"-o /out",
		"-d cpu",
		"--overlap 0.25",
		"--filename {stem}.{ext}",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
	if strings.Contains(joined, "--two-stems") {
		t.Errorf("four-stem run must not pass --two-stems: %q", joined)
	}
	if strings.Contains(joined, "--mp3") {
		t.Errorf("wav run must not pass --mp3: %q", joined)
	}
	if !strings.HasSuffix(joined, "/music/song.mp3") {
		t.Errorf("input must come last: %q", joined)
	}
}

func TestBuildArgsTwoStemMP3(t *testing.T) {
	cfg := testConfig()
	cfg.Stems = 2
	cfg.TwoStemTarget = "drums"
	cfg.Format = "mp3"
	cfg.MP3Bitrate = 192
	cfg.Jobs = 4
	cfg.Shifts = 2
	svc := NewService(cfg)

	joined := strings.Join(svc.buildArgs("song.mp3", "out"), " ")
	for _, want := range []string{
		"--two-stems drums",
		"--mp3 --mp3-bitrate 192",
		"-j 4",
		"--shifts 2",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
}

func TestBuildArgsFlac(t *testing.T) {
	cfg := testConfig()
	cfg.Format = "flac"
	svc := NewService(cfg)

	joined := strings.Join(svc.buildArgs("song.wav", "out"), " ")
	if !strings.Contains(joined, "--flac") {
		t.Fatalf("expected --flac in %q", joined)
	}
	if strings.Contains(joined, "--mp3") {
		t.Fatalf("flac run must not pass --mp3: %q", joined)
	}
}

func TestSeparateSetsTorchHome(t *testing.T) {
	svc := NewService(testConfig())

	var gotEnv []string
	var gotName string
	svc.WithCommandRunner(func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
		gotEnv, gotName = env, name
		return nil, nil
	})

	if err := svc.Separate(context.Background(), "in.wav", "/out", "/work", "/cache"); err != nil {
		t.Fatalf("Separate returned error: %v", err)
	}
	if gotName != "demucs" {
		t.Fatalf("unexpected binary: %q", gotName)
	}
	if len(gotEnv) != 1 || gotEnv[0] != "TORCH_HOME=/cache" {
		t.Fatalf("unexpected env: %v", gotEnv)
	}
}

func TestSeparateWrapsToolFailure(t *testing.T) {
	svc := NewService(testConfig())
	svc.WithCommandRunner(func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
		return []byte("CUDA out of memory"), errors.New("exit status 1")
	})

	err := svc.Separate(context.Background(), "in.wav", "out", "", "")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Fatalf("expected tool output in error: %q", err.Error())
	}
}
