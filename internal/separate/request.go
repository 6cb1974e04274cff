package separate

import "stemsplit/internal/stems"

// Request captures one CLI invocation. It is built once, never mutated,
// and discarded when the run ends; the history row is its only trace.
type Request struct {
	Tool      Tool
	InputPath string
	OutputDir string
	// KeepPartial retains the output directory when the run fails.
	KeepPartial bool
}

// Result reports a completed run.
type Result struct {
	RunID     string
	Tool      Tool
	Model     string
	OutputDir string
	Stems     stems.FilePaths
}
