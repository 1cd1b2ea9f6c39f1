// Package contract defines the declared, enforced output schema a model
// contract checks against.
package contract

import "github.com/leapstack-labs/dbtlens/pkg/schema"

// Enforcement controls how strictly a contract is applied.
type Enforcement struct {
	// AllowExtra permits inferred columns absent from the declaration
	// without a diagnostic.
	AllowExtra bool

	// WideningAllowlist is a set of glob patterns (matched against column
	// name) for which a declared-to-inferred type change is tolerated even
	// when the types aren't Compatible (e.g. declaring "int" but inferring
	// "decimal" for a column matched by "amount_*"). Empty means no
	// widening beyond what logical.Type.Compatible already allows.
	WideningAllowlist []string
}

// Contract is a declared, enforced output schema for a model.
type Contract struct {
	Columns     schema.Schema
	Enforcement Enforcement
}

// IsZero reports whether the contract has no declared columns, i.e. the
// model has no contract at all (contract_enforced was false).
func (c Contract) IsZero() bool {
	return len(c.Columns) == 0
}
