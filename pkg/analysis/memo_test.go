package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbtlens/internal/state"
	"github.com/leapstack-labs/dbtlens/pkg/contract"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

func TestNodeInputFingerprintStableAndSensitive(t *testing.T) {
	n := &manifest.Node{ID: "model.orders", CompiledSQL: "select 1", DependsOn: []string{"model.customers"}}
	c := contract.Contract{Columns: schema.Schema{{Name: "id", Type: logical.Type{Kind: logical.KindInt}}}}

	fp1 := nodeInputFingerprint(n, c)
	fp2 := nodeInputFingerprint(n, c)
	assert.Equal(t, fp1, fp2, "fingerprint must be deterministic for identical input")

	changed := &manifest.Node{ID: "model.orders", CompiledSQL: "select 2", DependsOn: []string{"model.customers"}}
	assert.NotEqual(t, fp1, nodeInputFingerprint(changed, c), "a changed compiled SQL body must change the fingerprint")

	reordered := &manifest.Node{ID: "model.orders", CompiledSQL: "select 1", DependsOn: []string{"model.customers", "model.accounts"}}
	assert.NotEqual(t, fp1, nodeInputFingerprint(reordered, c))
}

func TestMemoRoundTrip(t *testing.T) {
	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	defer store.Close()
	require.NoError(t, store.Migrate())

	diags := []diagnostic.Diagnostic{{Code: diagnostic.ContractMissingColumn, Severity: diagnostic.Error, Message: "missing id"}}
	saveMemo(store, "model.orders", "fp1", diags)

	got, ok := lookupMemo(store, "model.orders", "fp1")
	require.True(t, ok)
	assert.Equal(t, diags, got)

	_, ok = lookupMemo(store, "model.orders", "fp2")
	assert.False(t, ok, "a different fingerprint must not reuse the stored memo")

	_, ok = lookupMemo(store, "model.unknown", "fp1")
	assert.False(t, ok)
}

func TestLookupMemoNilStore(t *testing.T) {
	_, ok := lookupMemo(nil, "model.orders", "fp1")
	assert.False(t, ok)
}
