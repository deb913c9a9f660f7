package ide

import (
	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/resolver"
)

// GotoTarget is one jump destination.
type GotoTarget struct {
	File extractor.FileID
	Span cst.Span
	Kind extractor.Kind
	Name string
}

func targetFrom(sym *extractor.Symbol) GotoTarget {
	return GotoTarget{File: sym.File, Span: sym.Span, Kind: sym.Kind, Name: sym.Name}
}

// GotoDefinition finds where the symbol or type reference under (line, col)
// is declared. Returns nil if nothing resolves; returns more than one target
// only for a genuinely ambiguous reference.
func GotoDefinition(idx *index.Index, file extractor.FileID, line, col int) []GotoTarget {
	if ref := findTypeRefAt(idx, file, line, col); ref != nil {
		scope := parentScope(ref.owner.QualifiedName)
		res := resolver.New(idx, nil)
		var result resolver.Result
		if ref.ref.Kind == cst.RefExpression {
			result = res.Resolve(ref.part.Target, scope)
		} else {
			result = res.ResolveType(ref.part.Target, scope)
		}
		if targets := targetsFromResult(result); targets != nil {
			return targets
		}
		if def := findDefinitionByName(idx, ref.target); def != nil {
			return []GotoTarget{targetFrom(def)}
		}
	}

	sym := findSymbolAt(idx, file, line, col)
	if sym == nil {
		return nil
	}
	if sym.Kind.IsDefinition() {
		return []GotoTarget{targetFrom(sym)}
	}
	if len(sym.Supertypes) > 0 {
		scope := parentScope(sym.QualifiedName)
		result := resolver.New(idx, nil).ResolveType(sym.Supertypes[0], scope)
		if targets := targetsFromResult(result); targets != nil {
			return targets
		}
	}
	if def, ok := idx.LookupDefinition(sym.QualifiedName); ok {
		return []GotoTarget{targetFrom(def)}
	}
	return nil
}

// GotoTypeDefinition always navigates to the type, never to the usage
// itself — `engine : Engine` jumps to `part def Engine` whether invoked from
// the usage name or from the "Engine" reference.
func GotoTypeDefinition(idx *index.Index, file extractor.FileID, line, col int) []GotoTarget {
	res := resolver.New(idx, nil)

	if ref := findTypeRefAt(idx, file, line, col); ref != nil {
		scope := parentScope(ref.owner.QualifiedName)
		result := res.ResolveType(ref.part.Target, scope)
		if targets := targetsFromResult(result); targets != nil {
			return targets
		}
		if def := findDefinitionByName(idx, ref.target); def != nil {
			return []GotoTarget{targetFrom(def)}
		}
	}

	sym := findSymbolAt(idx, file, line, col)
	if sym == nil {
		return nil
	}

	if len(sym.Supertypes) > 0 {
		scope := parentScope(sym.QualifiedName)
		result := res.ResolveType(sym.Supertypes[0], scope)
		if targets := targetsFromResult(result); targets != nil {
			return targets
		}
		if def := findDefinitionByName(idx, sym.Supertypes[0]); def != nil {
			return []GotoTarget{targetFrom(def)}
		}
	}

	for i := range sym.TypeRefs {
		ref := &sym.TypeRefs[i]
		if ref.Kind != cst.RefTyping && ref.Kind != cst.RefSpecializes {
			continue
		}
		scope := parentScope(sym.QualifiedName)
		result := res.ResolveType(ref.Target(), scope)
		if targets := targetsFromResult(result); targets != nil {
			return targets
		}
		if def := findDefinitionByName(idx, ref.Target()); def != nil {
			return []GotoTarget{targetFrom(def)}
		}
	}

	return nil
}

func targetsFromResult(result resolver.Result) []GotoTarget {
	switch result.Outcome {
	case resolver.Found:
		return []GotoTarget{targetFrom(result.Symbol)}
	case resolver.Ambiguous:
		targets := make([]GotoTarget, len(result.Candidates))
		for i, c := range result.Candidates {
			targets[i] = targetFrom(c)
		}
		return targets
	}
	return nil
}
