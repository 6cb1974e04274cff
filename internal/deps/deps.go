// Package deps reports availability of the external binaries stemsplit
// delegates to. Nothing here runs the tools; LookPath is the only probe so
// `stemsplit tools` stays instant even when models are missing.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"stemsplit/internal/config"
)

// Requirement defines an external dependency stemsplit relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// For returns the requirement set for the given configuration, using the
// configured binary names. ffmpeg is optional: both tools need it only for
// compressed input or output.
func For(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "spleeter",
			Command:     cfg.Spleeter.Binary,
			Description: "Spleeter source separation",
		},
		{
			Name:        "demucs",
			Command:     cfg.Demucs.Binary,
			Description: "Demucs source separation",
		},
		{
			Name:        "ffmpeg",
			Command:     "ffmpeg",
			Description: "audio decode/encode for compressed formats",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Detail = path
		results = append(results, status)
	}
	return results
}

// Verify checks that the named tool's binary is present and returns a
// descriptive error when it is not.
func Verify(cfg *config.Config, tool string) error {
	var command string
	switch tool {
	case "spleeter":
		command = cfg.Spleeter.Binary
	case "demucs":
		command = cfg.Demucs.Binary
	default:
		return fmt.Errorf("unknown tool %q", tool)
	}
	if _, err := exec.LookPath(command); err != nil {
		return fmt.Errorf("%s binary %q not found in PATH (install the tool or set [%s].binary)", tool, command, tool)
	}
	return nil
}
