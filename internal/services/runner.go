package services

import (
	"context"
	"os"
	"os/exec"
)

// CommandRunner executes an external tool and returns its combined output.
// dir is the working directory; env entries are appended to the current
// environment. Tests substitute a runner to avoid spawning subprocesses.
type CommandRunner func(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)

// RunCommand is the default CommandRunner backed by os/exec. The subprocess
// is killed when ctx is cancelled.
func RunCommand(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return cmd.CombinedOutput()
}
