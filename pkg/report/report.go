// Package report assembles a collected diagnostic set and a run context
// into the stable, content-hashed envelope described by the external
// report contract.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"time"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
)

// Version is the report schema's {major, minor} tag. Additive fields bump
// Minor; field removal or retyping bumps Major.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// currentVersion is the one schema version this package emits today.
var currentVersion = Version{Major: 1, Minor: 0}

// Summary counts diagnostics and coverage for a run.
type Summary struct {
	Total              int `json:"total"`
	Errors             int `json:"errors"`
	Warnings           int `json:"warnings"`
	Info               int `json:"info"`
	ModelsChecked      int `json:"models_checked"`
	ContractsValidated int `json:"contracts_validated"`
}

// StateComparisonMetadata is attached when a run compared against a prior
// manifest state (§4.6/§4.7).
type StateComparisonMetadata struct {
	ModifiedNodeIDs  []string `json:"modified_node_ids"`
	NewNodeIDs       []string `json:"new_node_ids"`
	DeletedNodeIDs   []string `json:"deleted_node_ids"`
	BlastRadiusCount int      `json:"blast_radius_count"`
}

// RunContext is everything about the run itself that isn't a diagnostic:
// what was checked and, optionally, what changed since a prior state.
type RunContext struct {
	Timestamp          time.Time
	ModelsChecked      int
	ContractsValidated int
	StateComparison    *StateComparisonMetadata
}

// Report is the stable envelope produced by Assemble.
type Report struct {
	Version         Version                  `json:"version"`
	Timestamp       time.Time                `json:"timestamp"`
	ContentHash     string                   `json:"content_hash"`
	Summary         Summary                  `json:"summary"`
	Diagnostics     []diagnostic.Diagnostic  `json:"diagnostics"`
	StateComparison *StateComparisonMetadata `json:"metadata,omitempty"`
}

// Assemble sorts diags into canonical order, computes the summary and
// content hash, and wraps everything in a Report.
func Assemble(diags []diagnostic.Diagnostic, ctx RunContext) *Report {
	ordered := make([]diagnostic.Diagnostic, len(diags))
	copy(ordered, diags)
	diagnostic.Sort(ordered)

	r := &Report{
		Version:         currentVersion,
		Timestamp:       ctx.Timestamp,
		Summary:         summarize(ordered, ctx),
		Diagnostics:     ordered,
		StateComparison: ctx.StateComparison,
	}
	r.ContentHash = contentHash(ordered)
	return r
}

func summarize(diags []diagnostic.Diagnostic, ctx RunContext) Summary {
	s := Summary{
		Total:              len(diags),
		ModelsChecked:      ctx.ModelsChecked,
		ContractsValidated: ctx.ContractsValidated,
	}
	for _, d := range diags {
		switch d.Severity {
		case diagnostic.Error:
			s.Errors++
		case diagnostic.Warning:
			s.Warnings++
		default:
			s.Info++
		}
	}
	return s
}

// hashableDiagnostic is the canonical textual serialization shape used for
// ContentHash: field order is fixed by struct declaration order and the
// timestamp is excluded entirely, so two runs over identical inputs hash
// identically regardless of when they ran.
type hashableDiagnostic struct {
	Code     diagnostic.Code     `json:"code"`
	Severity diagnostic.Severity `json:"severity"`
	Message  string              `json:"message"`
	Location diagnostic.Location `json:"location"`
	Expected string              `json:"expected,omitempty"`
	Actual   string              `json:"actual,omitempty"`
	Impact   []string            `json:"impact,omitempty"`
}

func contentHash(diags []diagnostic.Diagnostic) string {
	serial := make([]hashableDiagnostic, len(diags))
	for i, d := range diags {
		serial[i] = hashableDiagnostic{
			Code:     d.Code,
			Severity: d.Severity,
			Message:  d.Message,
			Location: d.Location,
			Expected: d.Expected,
			Actual:   d.Actual,
			Impact:   d.Impact,
		}
	}
	// json.Marshal never errors on this concrete, cycle-free type.
	b, _ := json.Marshal(serial)
	sum := sha256.Sum256(b)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// identifierPattern matches bare identifier-shaped tokens (schema/table/
// column names) inside a rendered diagnostic message.
var identifierPattern = regexp.MustCompile(`"[^"]*"|\b[a-zA-Z_][a-zA-Z0-9_]*\.[a-zA-Z_][a-zA-Z0-9_.]*\b`)

// Redact replaces identifier-shaped substrings in msg with a fixed
// placeholder, for rendered text only. Structured diagnostic fields
// (Expected, Actual, Location) are never touched by this function; callers
// must not redact them.
func Redact(msg string) string {
	return identifierPattern.ReplaceAllString(msg, "[REDACTED]")
}
