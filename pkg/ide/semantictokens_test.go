package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/cst"
)

func TestSemanticTokens_PackageIsNamespace(t *testing.T) {
	tree := cst.Parse([]byte(`package Base;`))
	require.Empty(t, tree.Errors)
	tokens := SemanticTokens(tree)
	require.NotEmpty(t, tokens)
	assert.Equal(t, TokenNamespace, tokens[0].Type)
}

func TestSemanticTokens_DefinitionIsDef(t *testing.T) {
	tree := cst.Parse([]byte(`part def Vehicle;`))
	require.Empty(t, tree.Errors)
	tokens := SemanticTokens(tree)
	require.NotEmpty(t, tokens)
	assert.Equal(t, TokenDef, tokens[0].Type)
}

func TestSemanticTokens_UsageIsProperty(t *testing.T) {
	tree := cst.Parse([]byte(`part def Vehicle { part engine; }`))
	require.Empty(t, tree.Errors)
	tokens := SemanticTokens(tree)

	var sawProperty bool
	for _, tok := range tokens {
		if tok.Type == TokenProperty {
			sawProperty = true
		}
	}
	assert.True(t, sawProperty)
}

func TestSemanticTokens_AliasIsVariable(t *testing.T) {
	tree := cst.Parse([]byte(`part def Vehicle; alias Car for Vehicle;`))
	require.Empty(t, tree.Errors)
	tokens := SemanticTokens(tree)

	var sawVariable bool
	for _, tok := range tokens {
		if tok.Type == TokenVariable {
			sawVariable = true
		}
	}
	assert.True(t, sawVariable)
}

func TestSemanticTokens_SubsettingOnUsageIsProperty(t *testing.T) {
	tree := cst.Parse([]byte(`part def Shape { part edges; part tfe :> edges; }`))
	require.Empty(t, tree.Errors)
	tokens := SemanticTokens(tree)

	// The last token is tfe's Subsets reference to edges.
	require.NotEmpty(t, tokens)
	assert.Equal(t, TokenProperty, tokens[len(tokens)-1].Type)
}

func TestSemanticTokens_SpecializationOnDefinitionIsDef(t *testing.T) {
	tree := cst.Parse([]byte(`part def Vehicle; part def Car :> Vehicle;`))
	require.Empty(t, tree.Errors)
	tokens := SemanticTokens(tree)

	// The last token is the Specializes reference to Vehicle; both it and
	// Car's own declaration token classify as Def.
	for _, tok := range tokens[1:] {
		assert.Equal(t, TokenDef, tok.Type)
	}
}
