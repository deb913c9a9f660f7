package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlayHints_ShortNameGetsResolvedTargetHint(t *testing.T) {
	idx := buildIDE(t, `package P { part def Engine; part def Car { part engine : Engine; } }`)
	hints := InlayHints(idx, 1)

	require.NotEmpty(t, hints)
	var found bool
	for _, h := range hints {
		if h.Label == "P::Engine" {
			found = true
			assert.Equal(t, InlayHintResolvedType, h.Kind)
		}
	}
	assert.True(t, found)
}

func TestInlayHints_TopLevelNameGetsNoHint(t *testing.T) {
	idx := buildIDE(t, `part def Engine; part def Car { part engine : Engine; }`)
	hints := InlayHints(idx, 1)
	assert.Empty(t, hints)
}

func TestInlayHints_UnresolvedReferenceGetsNoHint(t *testing.T) {
	idx := buildIDE(t, `part def Car { part engine : Missing; }`)
	hints := InlayHints(idx, 1)
	assert.Empty(t, hints)
}
