package analysis

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/leapstack-labs/dbtlens/internal/state"
	"github.com/leapstack-labs/dbtlens/pkg/contract"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
)

// nodeInputFingerprint hashes everything that can change a node's check
// result: its compiled SQL, its declared contract and its dependency set.
// A node whose fingerprint is unchanged since the last recorded run can
// never produce a different diagnostic set, so its stored diagnostics can
// be reused in place of the contract diff (the cross-run analogue of
// querylayer's early cutoff).
func nodeInputFingerprint(n *manifest.Node, c contract.Contract) string {
	h := xxhash.New()
	_, _ = h.WriteString(n.CompiledSQL)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(n.RawSQL)
	_, _ = h.WriteString("\x00")

	deps := append([]string(nil), n.DependsOn...)
	sort.Strings(deps)
	for _, d := range deps {
		_, _ = h.WriteString(d)
		_, _ = h.WriteString(",")
	}
	_, _ = h.WriteString("\x00")

	for _, col := range c.Columns {
		_, _ = h.WriteString(col.Name)
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(col.Type.String())
		_, _ = h.WriteString(";")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// lookupMemo returns the memoized diagnostics for nodeID if store has a
// memo whose InputFingerprint matches fp.
func lookupMemo(store state.Store, nodeID, fp string) ([]diagnostic.Diagnostic, bool) {
	if store == nil {
		return nil, false
	}
	memo, ok, err := store.GetMemo(nodeID)
	if err != nil || !ok || memo.InputFingerprint != fp {
		return nil, false
	}
	var diags []diagnostic.Diagnostic
	if err := json.Unmarshal([]byte(memo.Diagnostics), &diags); err != nil {
		return nil, false
	}
	return diags, true
}

// saveMemo records nodeID's fingerprint and resulting diagnostics so a
// later run with an unchanged fingerprint can skip the contract diff.
func saveMemo(store state.Store, nodeID, fp string, diags []diagnostic.Diagnostic) {
	if store == nil {
		return
	}
	b, err := json.Marshal(diags)
	if err != nil {
		return
	}
	_ = store.SetMemo(state.Memo{
		NodeID:            nodeID,
		InputFingerprint:  fp,
		OutputFingerprint: strconv.FormatUint(xxhash.Sum64(b), 16),
		Diagnostics:       string(b),
		UpdatedAt:         time.Now().UTC(),
	})
}
