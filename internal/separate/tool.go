package separate

import (
	"strconv"
	"strings"

	"stemsplit/internal/services"
)

// Tool identifies a separation backend.
type Tool string

const (
	ToolSpleeter Tool = "spleeter"
	ToolDemucs   Tool = "demucs"
)

// Tools lists the supported backends.
func Tools() []Tool {
	return []Tool{ToolSpleeter, ToolDemucs}
}

// ParseTool resolves a user-supplied tool name. Unknown names produce a
// usage-classified error so the CLI exits before any adapter is touched.
func ParseTool(value string) (Tool, error) {
	switch Tool(strings.ToLower(strings.TrimSpace(value))) {
	case ToolSpleeter:
		return ToolSpleeter, nil
	case ToolDemucs:
		return ToolDemucs, nil
	default:
		return "", services.Wrap(services.ErrUsage, "", "",
			"unknown tool "+strconv.Quote(value)+" (supported: spleeter, demucs)", nil)
	}
}

func (t Tool) String() string {
	return string(t)
}
