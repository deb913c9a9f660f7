package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
)

func buildViewIndex(t *testing.T, src string) *index.Index {
	t.Helper()
	idx := index.New(index.DefaultConfig(), nil)
	tree := cst.Parse([]byte(src))
	require.Empty(t, tree.Errors)
	idx.AddFile(1, extractor.NewExtractor(nil).Extract(1, tree, nil))
	return idx
}

func findView(t *testing.T, idx *index.Index, name string) *extractor.Symbol {
	t.Helper()
	sym, ok := idx.LookupQualified(name)
	require.True(t, ok)
	return sym
}

func TestView_MemberExposeNoFilter(t *testing.T) {
	idx := buildViewIndex(t, `
		package Model {
			part def Vehicle { part engine; }
		}
		view def V { expose Model::Vehicle; }
	`)
	out := Apply(findView(t, idx, "V"), idx)
	assert.Equal(t, []string{"Model::Vehicle"}, out)
}

func TestView_DirectNamespaceExpose(t *testing.T) {
	idx := buildViewIndex(t, `
		package Model {
			part def Vehicle {
				part engine;
				part wheels { part tire; }
			}
		}
		view def V { expose Model::Vehicle::*; }
	`)
	out := Apply(findView(t, idx, "V"), idx)
	assert.ElementsMatch(t, []string{"Model::Vehicle::engine", "Model::Vehicle::wheels"}, out)
}

func TestView_RecursiveExpose(t *testing.T) {
	idx := buildViewIndex(t, `
		package Model {
			part def Vehicle {
				part engine { part cylinder; }
				part wheels;
			}
			part def Aircraft;
		}
		view def V { expose Model::Vehicle::*::**; }
	`)
	out := Apply(findView(t, idx, "V"), idx)
	assert.ElementsMatch(t, []string{
		"Model::Vehicle::engine", "Model::Vehicle::engine::cylinder", "Model::Vehicle::wheels",
	}, out)
}

func TestView_NamespaceExposeWithFilter(t *testing.T) {
	idx := buildViewIndex(t, `
		package Model {
			part def Vehicle {
				part engine;
				part wheels;
				attribute name;
				attribute speed;
			}
		}
		view def V { expose Model::Vehicle::*; filter PartUsage; }
	`)
	out := Apply(findView(t, idx, "V"), idx)
	assert.ElementsMatch(t, []string{"Model::Vehicle::engine", "Model::Vehicle::wheels"}, out)
}

func TestView_MultipleExposeUnion(t *testing.T) {
	idx := buildViewIndex(t, `
		package Model {
			part def Vehicle { part engine; part wheels; part body; }
		}
		view def V { expose Model::Vehicle::engine; expose Model::Vehicle::wheels; }
	`)
	out := Apply(findView(t, idx, "V"), idx)
	assert.ElementsMatch(t, []string{"Model::Vehicle::engine", "Model::Vehicle::wheels"}, out)
}

func TestView_NoExposeYieldsEmpty(t *testing.T) {
	idx := buildViewIndex(t, `view def V { }`)
	out := Apply(findView(t, idx, "V"), idx)
	assert.Empty(t, out)
}
