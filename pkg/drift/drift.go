// Package drift compares a model's manifest-declared schema against its
// live warehouse relation, using strict type equality (no numeric
// coercion, unlike contractdiff's Compatible check) since drift detection
// cares about exactly what the warehouse has, not what would merely work.
package drift

import (
	"fmt"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

// Detect compares declared against live (the warehouse's actual columns)
// and returns a diagnostic for every dropped column, type change, or
// added column.
func Detect(declared, live schema.Schema, norm schema.Normalizer, file string) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, col := range declared {
		liveCol, ok := live.Find(col.Name, norm)
		if !ok {
			diags = append(diags, diagnostic.Diagnostic{
				Code:     diagnostic.DriftColumnDropped,
				Severity: diagnostic.DefaultSeverity(diagnostic.DriftColumnDropped),
				Message:  fmt.Sprintf("column %q is declared but no longer exists in the warehouse relation", col.Name),
				Location: diagnostic.Location{File: file},
				Expected: col.Name,
			})
			continue
		}
		if !col.Type.Equal(liveCol.Type) {
			diags = append(diags, diagnostic.Diagnostic{
				Code:     diagnostic.DriftTypeChange,
				Severity: diagnostic.DefaultSeverity(diagnostic.DriftTypeChange),
				Message:  fmt.Sprintf("column %q is declared as %s but the warehouse reports %s", col.Name, col.Type, liveCol.Type),
				Location: diagnostic.Location{File: file},
				Expected: col.Type.String(),
				Actual:   liveCol.Type.String(),
			})
		}
	}

	for _, col := range live {
		if _, ok := declared.Find(col.Name, norm); !ok {
			diags = append(diags, diagnostic.Diagnostic{
				Code:     diagnostic.DriftColumnAdded,
				Severity: diagnostic.DefaultSeverity(diagnostic.DriftColumnAdded),
				Message:  fmt.Sprintf("column %q exists in the warehouse relation but is not declared", col.Name),
				Location: diagnostic.Location{File: file},
				Actual:   col.Name,
			})
		}
	}

	return diags
}
