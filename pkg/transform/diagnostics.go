package transform

import "fmt"

// Severity of a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a message produced during a run, attributed to the
// transformer that raised it.
type Diagnostic struct {
	Severity    Severity `json:"severity"`
	Transformer string   `json:"transformer,omitempty"`
	Message     string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Transformer != "" {
		return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Transformer, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
