package separate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"stemsplit/internal/config"
	"stemsplit/internal/deps"
	"stemsplit/internal/fileutil"
	"stemsplit/internal/history"
	"stemsplit/internal/services"
	"stemsplit/internal/services/demucs"
	"stemsplit/internal/services/spleeter"
	"stemsplit/internal/stems"
)

// Separator is the contract every tool adapter satisfies.
type Separator interface {
	// Model describes the pretrained model the run will use.
	Model() string
	// Stems is the expected stem count.
	Stems() int
	// Separate runs the tool synchronously. Output layout is tool-defined.
	Separate(ctx context.Context, input, outputDir, workDir, modelCacheDir string) error
}

// Runner resolves a Request to an adapter and drives the run.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *history.Store
	separators map[Tool]Separator
	lockRetry  time.Duration
}

// NewRunner builds a Runner with adapters constructed from cfg. store may
// be nil when history is disabled.
func NewRunner(cfg *config.Config, logger *slog.Logger, store *history.Store) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.With("component", "separator"),
		store:  store,
		separators: map[Tool]Separator{
			ToolSpleeter: spleeter.NewService(cfg.Spleeter),
			ToolDemucs:   demucs.NewService(cfg.Demucs),
		},
		lockRetry: 500 * time.Millisecond,
	}
}

// WithSeparator replaces the adapter for a tool (used by tests).
func (r *Runner) WithSeparator(tool Tool, sep Separator) {
	r.separators[tool] = sep
}

// Run executes one separation. The order of checks matters: a rejected
// invocation must not create the output directory or touch any tool.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	sep, ok := r.separators[req.Tool]
	if !ok {
		return Result{}, services.Wrap(services.ErrUsage, "", "", "unknown tool "+req.Tool.String(), nil)
	}

	input, err := filepath.Abs(req.InputPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrUsage, req.Tool.String(), "resolve input", "", err)
	}
	if !fileutil.FileExists(input) {
		return Result{}, services.Wrap(services.ErrNotFound, req.Tool.String(), "",
			fmt.Sprintf("input file does not exist: %s", input), nil)
	}

	if err := deps.Verify(r.cfg, req.Tool.String()); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, req.Tool.String(), "preflight", "", err)
	}

	if err := r.cfg.EnsureDirectories(); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, req.Tool.String(), "prepare", "", err)
	}

	outputDir, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return Result{}, services.Wrap(services.ErrUsage, req.Tool.String(), "resolve output", "", err)
	}
	createdOutput, err := fileutil.EnsureDir(outputDir)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, req.Tool.String(), "create output dir", "", err)
	}

	runID := uuid.NewString()
	started := time.Now()
	logger := r.logger.With("run_id", runID, "tool", req.Tool.String(), "model", sep.Model())
	logger.Info("starting separation", "input", input, "output", outputDir)

	r.recordStart(ctx, history.Run{
		ID:        runID,
		Tool:      req.Tool.String(),
		Model:     sep.Model(),
		InputPath: input,
		OutputDir: outputDir,
		StartedAt: started,
	})

	runErr := r.runLocked(ctx, sep, input, outputDir)

	var collected stems.FilePaths
	if runErr == nil {
		collected, err = stems.Collect(outputDir)
		if err != nil {
			runErr = services.Wrap(services.ErrExternalTool, req.Tool.String(), "collect stems", "", err)
		}
	}

	if runErr != nil {
		keep := req.KeepPartial || r.cfg.Separation.KeepPartial
		if cleanupErr := stems.Cleanup(outputDir, createdOutput, keep); cleanupErr != nil {
			logger.Warn("partial output cleanup failed", "error", cleanupErr)
		}
		r.recordResult(ctx, runID, history.StatusFailed, nil, runErr.Error())
		logger.Error("separation failed", "error", runErr)
		return Result{}, runErr
	}

	r.recordResult(ctx, runID, history.StatusCompleted, collected.Names(), "")
	logger.Info("separation complete", "stems", len(collected), "duration", time.Since(started))

	return Result{
		RunID:     runID,
		Tool:      req.Tool,
		Model:     sep.Model(),
		OutputDir: outputDir,
		Stems:     collected,
	}, nil
}

// runLocked holds the model cache lock for the duration of the tool run.
// Both tools download pretrained models on first use; two concurrent first
// runs would corrupt the shared cache.
func (r *Runner) runLocked(ctx context.Context, sep Separator, input, outputDir string) error {
	runCtx := ctx
	if timeout := r.cfg.Separation.TimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	cacheDir := r.cfg.Paths.ModelCacheDir
	lock := flock.New(filepath.Join(cacheDir, ".stemsplit.lock"))
	locked, err := lock.TryLockContext(runCtx, r.lockRetry)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "model cache lock", "", err)
	}
	if !locked {
		return services.Wrap(services.ErrExternalTool, "", "model cache lock", "could not acquire lock", nil)
	}
	defer func() { _ = lock.Unlock() }()

	return sep.Separate(runCtx, input, outputDir, r.cfg.Paths.WorkDir, cacheDir)
}

func (r *Runner) recordStart(ctx context.Context, run history.Run) {
	if r.store == nil {
		return
	}
	if err := r.store.RecordStart(ctx, run); err != nil {
		r.logger.Warn("history record failed", "error", err)
	}
}

func (r *Runner) recordResult(ctx context.Context, id string, status history.Status, stemNames []string, errMessage string) {
	if r.store == nil {
		return
	}
	if err := r.store.RecordResult(ctx, id, status, stemNames, errMessage); err != nil {
		r.logger.Warn("history record failed", "error", err)
	}
	if err := r.store.Prune(ctx, r.cfg.History.MaxRuns); err != nil {
		r.logger.Warn("history prune failed", "error", err)
	}
}
