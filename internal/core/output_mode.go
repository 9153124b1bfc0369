package core

import "github.com/EmundoT/rebase-helper/internal/config"

// OutputMode controls how status lines are displayed
type OutputMode int

// OutputMode constants define available output formatting modes.
const (
	OutputNormal OutputMode = iota // styled output
	OutputQuiet                    // errors only
	OutputJSON                     // one JSON object per message
)

// NonInteractiveFlags groups the options that shape non-interactive output.
type NonInteractiveFlags struct {
	Yes   bool       // answer every question with yes
	Mode  OutputMode // output formatting mode
	Color bool
}

// FlagsFromConfig derives the output flags of a run. Machine-readable
// reports imply JSON status lines so stdout stays parseable.
func FlagsFromConfig(cfg *config.Config, color bool) NonInteractiveFlags {
	mode := OutputNormal
	switch {
	case cfg.String(config.KeyOutputTool) == "json":
		mode = OutputJSON
	case cfg.Bool(config.KeyQuiet):
		mode = OutputQuiet
	}
	return NonInteractiveFlags{
		Yes:   cfg.Bool(config.KeyForceBuildLogHooks),
		Mode:  mode,
		Color: color,
	}
}

// JSONOutput is a single status line in JSON mode
type JSONOutput struct {
	Status  string                 `json:"status"`            // "success", "error", "warning", "stage"
	Message string                 `json:"message,omitempty"` // Optional message
	Data    map[string]interface{} `json:"data,omitempty"`    // Stage-specific data
	Error   *JSONError             `json:"error,omitempty"`   // Error details
}

// JSONError represents error information in JSON output
type JSONError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
