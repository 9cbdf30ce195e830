package service

import "time"

// Plugin names
const (
	PluginExport = "export"
	PluginImport = "import"
)

// Severity of a plugin message
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message is a user-facing remark produced during a run, attached to a node
type Message struct {
	NodePath string   `json:"nodePath"`
	Severity Severity `json:"severity"`
	Text     string   `json:"message"`
}

// Result is the outcome of one plugin run
type Result struct {
	Plugin    string        `json:"plugin"`
	Success   bool          `json:"success"`
	Artifacts []string      `json:"artifacts,omitempty"`
	Messages  []Message     `json:"messages,omitempty"`
	Network   string        `json:"network,omitempty"` // path of the imported network
	Commit    string        `json:"commit,omitempty"`
	Edges     int           `json:"edges"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

func newResult(plugin string) *Result {
	return &Result{Plugin: plugin}
}

// fail marks the result failed and returns err for chaining
func (r *Result) fail(err error) error {
	r.Success = false
	r.Error = err.Error()
	return err
}
