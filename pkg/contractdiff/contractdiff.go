// Package contractdiff checks a model's inferred schema against its
// declared contract.
package contractdiff

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/dbtlens/pkg/contract"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

// Diff compares a model's inferred output schema against its declared
// contract and returns every violation, in the fixed rule order: missing
// column, type mismatch, extra column, (column order is never enforced).
// downstream lists the node IDs affected if this model's contract breaks,
// attached to every diagnostic's Impact field.
func Diff(inferred schema.Schema, c contract.Contract, norm schema.Normalizer, file string, downstream []string) []diagnostic.Diagnostic {
	if c.IsZero() {
		return nil
	}

	var diags []diagnostic.Diagnostic

	for _, declared := range c.Columns {
		actual, ok := inferred.Find(declared.Name, norm)
		if !ok {
			diags = append(diags, diag(diagnostic.ContractMissingColumn,
				fmt.Sprintf("contract declares column %q but it is not produced by the model's SQL", declared.Name),
				file, declared.Type.String(), "", downstream))
			continue
		}
		if !declared.Type.Compatible(actual.Type) {
			if MatchesAllowlist(declared.Name, c.Enforcement.WideningAllowlist) {
				continue
			}
			diags = append(diags, diag(diagnostic.ContractTypeMismatch,
				fmt.Sprintf("column %q declared as %s but inferred as %s", declared.Name, declared.Type, actual.Type),
				file, declared.Type.String(), actual.Type.String(), downstream))
		}
	}

	if !c.Enforcement.AllowExtra {
		for _, col := range inferred {
			if _, ok := c.Columns.Find(col.Name, norm); !ok {
				diags = append(diags, diag(diagnostic.ContractExtraColumn,
					fmt.Sprintf("column %q is produced by the model's SQL but not declared in its contract", col.Name),
					file, col.Name, col.Type.String(), downstream))
			}
		}
	}

	return diags
}

func diag(code diagnostic.Code, msg, file, expected, actual string, downstream []string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Code:     code,
		Severity: diagnostic.DefaultSeverity(code),
		Message:  msg,
		Location: diagnostic.Location{File: file},
		Expected: expected,
		Actual:   actual,
		Impact:   downstream,
	}
}

// MatchesAllowlist reports whether name matches any of the glob patterns
// in allowlist (e.g. "staging.*", "*"), using shell-style single-level
// glob semantics.
func MatchesAllowlist(name string, allowlist []string) bool {
	for _, pattern := range allowlist {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
