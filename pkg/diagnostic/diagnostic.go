// Package diagnostic defines the closed diagnostic-code registry, severity
// levels and canonical ordering shared by every component that emits
// findings.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Severity is one of Error, Warning or Info, ordered descending in the
// canonical diagnostic order (Error > Warning > Info).
type Severity int

// Severity levels.
const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON renders a Severity as its lowercase name rather than its
// underlying int, matching the external report envelope.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the lowercase severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = Error
	case "warning":
		*s = Warning
	case "info":
		*s = Info
	default:
		return fmt.Errorf("diagnostic: unknown severity %q", name)
	}
	return nil
}

// rank returns a descending-sort rank: Error first.
func (s Severity) rank() int {
	switch s {
	case Error:
		return 0
	case Warning:
		return 1
	default:
		return 2
	}
}

// Code is a stable diagnostic code string. The registry below is closed:
// no code is renamed once shipped (§7).
type Code string

// Contract family.
const (
	ContractMissingColumn Code = "ContractMissingColumn"
	ContractTypeMismatch  Code = "ContractTypeMismatch"
	ContractExtraColumn   Code = "ContractExtraColumn"
	ContractMissing       Code = "ContractMissing"
)

// Drift family.
const (
	DriftColumnDropped Code = "DriftColumnDropped"
	DriftTypeChange    Code = "DriftTypeChange"
	DriftColumnAdded   Code = "DriftColumnAdded"
)

// SQL family.
const (
	SqlParseError               Code = "SqlParseError"
	SqlUnsupportedSyntax        Code = "SqlUnsupportedSyntax"
	SqlSelectStarUnexpandable   Code = "SqlSelectStarUnexpandable"
	SqlInferenceError           Code = "SqlInferenceError"
	SqlGroupByAggregateUnaliased Code = "SqlGroupByAggregateUnaliased"
)

// Template family.
const (
	JinjaRenderError       Code = "JinjaRenderError"
	JinjaUndefinedVariable Code = "JinjaUndefinedVariable"
	JinjaSyntaxError       Code = "JinjaSyntaxError"
)

// System family.
const (
	InternalError  Code = "InternalError"
	InfoCode       Code = "Info"
	WarningCode    Code = "Warning"
)

// defaultSeverity is the registry's built-in severity for each code, applied
// before any configuration override (§7: overrides apply at assembly time).
var defaultSeverity = map[Code]Severity{
	ContractMissingColumn: Error,
	ContractTypeMismatch:  Error,
	ContractExtraColumn:   Warning,
	ContractMissing:       Error,

	DriftColumnDropped: Error,
	DriftTypeChange:    Error,
	DriftColumnAdded:   Info,

	SqlParseError:                Error,
	SqlUnsupportedSyntax:         Warning,
	SqlSelectStarUnexpandable:    Warning,
	SqlInferenceError:            Warning,
	SqlGroupByAggregateUnaliased: Error,

	JinjaRenderError:       Warning,
	JinjaUndefinedVariable: Warning,
	JinjaSyntaxError:       Warning,

	InternalError: Error,
	InfoCode:      Info,
	WarningCode:   Warning,
}

// DefaultSeverity returns the registry's built-in severity for a code. Codes
// outside the closed registry default to Error (fail safe).
func DefaultSeverity(c Code) Severity {
	if s, ok := defaultSeverity[c]; ok {
		return s
	}
	return Error
}

// Location pinpoints a diagnostic in source.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`   // 0 means unknown
	Column int    `json:"column,omitempty"` // 0 means unknown
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Impact   []string `json:"impact,omitempty"` // downstream Node.id list
}

// Less implements the canonical order of §3: severity desc, then code asc,
// then location asc, then message asc.
func Less(a, b Diagnostic) bool {
	if a.Severity.rank() != b.Severity.rank() {
		return a.Severity.rank() < b.Severity.rank()
	}
	if a.Code != b.Code {
		return a.Code < b.Code
	}
	if a.Location.File != b.Location.File {
		return a.Location.File < b.Location.File
	}
	if a.Location.Line != b.Location.Line {
		return a.Location.Line < b.Location.Line
	}
	if a.Location.Column != b.Location.Column {
		return a.Location.Column < b.Location.Column
	}
	return a.Message < b.Message
}

// Sort orders diagnostics into the canonical order in place.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return Less(diags[i], diags[j])
	})
}

// ApplyOverrides returns a copy of diags with severities replaced according
// to overrides, keyed by Code. Applied once, at report-assembly time (§7).
func ApplyOverrides(diags []Diagnostic, overrides map[Code]Severity) []Diagnostic {
	if len(overrides) == 0 {
		return diags
	}
	out := make([]Diagnostic, len(diags))
	for i, d := range diags {
		if sev, ok := overrides[d.Code]; ok {
			d.Severity = sev
		}
		out[i] = d
	}
	return out
}

// HasError reports whether any diagnostic has Error severity.
func HasError(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
