package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLedger_PutAndLookup(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Put("Vehicle", "id-1", "PartDef"))
	id, ok := l.Lookup("Vehicle")
	require.True(t, ok)
	assert.Equal(t, "id-1", id)

	_, ok = l.Lookup("Unknown")
	assert.False(t, ok)
}

func TestLedger_PutOverwritesExisting(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Put("Vehicle", "id-1", "PartDef"))
	require.NoError(t, l.Put("Vehicle", "id-2", "PartDef"))
	id, ok := l.Lookup("Vehicle")
	require.True(t, ok)
	assert.Equal(t, "id-2", id)
}

func TestLedger_PutAllAndLoadAll(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.PutAll([]Entry{
		{QualifiedName: "Vehicle", ElementID: "id-1", Kind: "PartDef"},
		{QualifiedName: "Car", ElementID: "id-2", Kind: "PartDef"},
	}))

	all, err := l.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Vehicle": "id-1", "Car": "id-2"}, all)
}

func TestLedger_Forget(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Put("Vehicle", "id-1", "PartDef"))
	require.NoError(t, l.Forget("Vehicle"))
	_, ok := l.Lookup("Vehicle")
	assert.False(t, ok)
}

func TestLedger_PutAllEmptyIsNoop(t *testing.T) {
	l := openTestLedger(t)
	require.NoError(t, l.PutAll(nil))
}
