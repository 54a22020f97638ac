package errors

import (
	"encoding/json"
	"errors"

	"github.com/gelix-lang/gelixc/internal/ast"
)

// Report is the canonical structured error type: every pass builder
// returns one, collected by the driver and only ever surfaced in bulk.
// No error is fatal within a pass.
type Report struct {
	Schema  string         `json:"schema"` // always "gelixc.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is an optional suggested remediation, surfaced by the check CLI.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// ReportError wraps a Report as an error so it survives errors.As
// unwrapping through ordinary Go error-handling code paths.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the report as deterministic JSON.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a Report for the given phase/code/message, with an
// optional source span.
func New(phase, code, message string, span *ast.Span) *Report {
	return &Report{
		Schema:  "gelixc.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
	}
}

// WithData attaches structured context data to a report, returning it
// for chaining at the call site.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// NewGeneric wraps a plain Go error as a Report, used at driver
// boundaries where an underlying error has no pass-specific code.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "gelixc.error/v1",
		Code:    "RUNTIME",
		Phase:   phase,
		Message: err.Error(),
	}
}
