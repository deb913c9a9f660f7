package cst

import "fmt"

// constructKeywords are the base keywords that introduce a Definition or
// Usage in the surface grammar.
var constructKeywords = map[string]bool{
	"part": true, "attribute": true, "action": true, "state": true,
	"constraint": true, "requirement": true, "enum": true, "item": true,
	"view": true, "viewpoint": true,
}

var modifierKeywords = map[string]bool{
	"public": true, "private": true, "protected": true,
	"abstract": true, "variation": true, "readonly": true, "derived": true,
	"individual": true, "ordered": true, "nonunique": true, "portion": true,
	"end": true, "default": true,
}

type parser struct {
	toks []Token
	pos  int
	errs []ParseError
}

// Parse tokenizes and parses source text into a CST plus a list of
// parse errors. It never panics and never halts extraction — malformed
// input yields partial nodes and an error entry, and parsing resumes at the
// next recognizable token.
func Parse(source []byte) *Tree {
	toks := Lex(source)
	p := &parser{toks: toks}
	root := &Node{Kind: KFile}
	root.Children = p.parseMembers(tokEOFSpan(toks))
	root.Span = fileSpan(toks)
	return &Tree{Root: root, Errors: p.errs}
}

func fileSpan(toks []Token) Span {
	if len(toks) == 0 {
		return Span{}
	}
	first := toks[0]
	last := toks[len(toks)-1]
	return Span{StartLine: first.Span.StartLine, StartCol: first.Span.StartCol,
		EndLine: last.Span.EndLine, EndCol: last.Span.EndCol,
		StartByte: first.Span.StartByte, EndByte: last.Span.EndByte}
}

func tokEOFSpan(toks []Token) Span {
	if len(toks) == 0 {
		return Span{}
	}
	return toks[len(toks)-1].Span
}

func (p *parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: TokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) at(kind TokenKind, text string) bool {
	t := p.cur()
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (p *parser) atPunct(text string) bool  { return p.at(TokPunct, text) }
func (p *parser) atKeyword(text string) bool { return p.at(TokKeyword, text) }

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) errorf(span Span, format string, args ...any) {
	p.errs = append(p.errs, ParseError{Span: span, Message: fmt.Sprintf(format, args...)})
}

// expectPunct consumes text if present; otherwise records a parse error and
// does not advance, letting the caller decide how to resynchronize.
func (p *parser) expectPunct(text string) bool {
	if p.atPunct(text) {
		p.advance()
		return true
	}
	p.errorf(p.cur().Span, "expected %q, got %q", text, p.cur().Text)
	return false
}

// parseMembers parses a sequence of top-level-or-body members until a
// closing '}' or EOF.
func (p *parser) parseMembers(eof Span) []*Node {
	var members []*Node
	var pendingDoc string
	for {
		for p.cur().Kind == TokComment || p.cur().Kind == TokDocComment {
			t := p.advance()
			if t.Kind == TokDocComment {
				pendingDoc = trimComment(t.Text)
			}
		}
		if p.cur().Kind == TokEOF || p.atPunct("}") {
			break
		}
		startPos := p.pos
		m := p.parseMember()
		if m == nil {
			// Could not make progress; skip one token to avoid an infinite loop.
			if p.pos == startPos {
				p.errorf(p.cur().Span, "unexpected token %q", p.cur().Text)
				p.advance()
			}
			continue
		}
		m.Doc = pendingDoc
		pendingDoc = ""
		members = append(members, m)
	}
	return members
}

func trimComment(s string) string {
	for _, prefix := range []string{"///", "//", "/**", "/*"} {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			s = s[len(prefix):]
			break
		}
	}
	for len(s) >= 2 && s[len(s)-2:] == "*/" {
		s = s[:len(s)-2]
		break
	}
	return s
}

func (p *parser) parseMember() *Node {
	start := p.cur().Span

	switch {
	case p.atKeyword("package"):
		return p.parsePackage(start)
	case p.atKeyword("import"):
		return p.parseImport(start)
	case p.atKeyword("alias"):
		return p.parseAlias(start)
	}

	mods := map[string]bool{}
	direction := ""
	for {
		t := p.cur()
		if t.Kind == TokKeyword && modifierKeywords[t.Text] {
			mods[t.Text] = true
			p.advance()
			continue
		}
		if t.Kind == TokKeyword && (t.Text == "in" || t.Text == "out" || t.Text == "inout") {
			direction = t.Text
			p.advance()
			continue
		}
		break
	}

	if p.atKeyword("import") {
		n := p.parseImport(start)
		if mods["private"] {
			n.ImportPublic = false
		}
		return n
	}

	if p.cur().Kind == TokKeyword && constructKeywords[p.cur().Text] {
		kw := p.advance().Text
		isDef := false
		if p.atKeyword("def") {
			p.advance()
			isDef = true
		}
		return p.parseConstruct(start, kw, isDef, mods, direction)
	}

	return nil
}

func (p *parser) parsePackage(start Span) *Node {
	p.advance() // "package"
	n := &Node{Kind: KPackage, Keyword: "package"}
	n.Name, n.NameSpan = p.parseDottedName()
	n.Children = p.parseBodyOrEmpty()
	n.Span = p.spanSince(start)
	return n
}

func (p *parser) parseImport(start Span) *Node {
	p.advance() // "import"
	n := &Node{Kind: KImport}
	pub := true
	if p.cur().Kind == TokKeyword && (p.cur().Text == "private" || p.cur().Text == "public") {
		pub = p.cur().Text == "public"
		p.advance()
	}
	n.ImportPublic = pub

	name, _ := p.parseDottedName()
	kind := WildcardNone
	if p.atPunct("::") {
		// already consumed as part of dotted name up to first '*'
	}
	// parseDottedName stops before trailing wildcard markers; handle here.
	for p.atPunct("*") || p.atPunct("**") {
		if p.atPunct("**") {
			kind = WildcardRecursive
			p.advance()
		} else {
			if kind == WildcardNone {
				kind = WildcardDirect
			}
			p.advance()
		}
		if p.atPunct("::") {
			p.advance()
		}
	}
	n.ImportTarget = name
	n.ImportKind = kind

	if p.atKeyword("as") {
		p.advance()
		if p.cur().Kind == TokIdentifier {
			n.ImportAlias = p.advance().Text
		}
	}
	if p.atPunct(";") {
		p.advance()
	}
	n.Span = p.spanSince(start)
	return n
}

func (p *parser) parseAlias(start Span) *Node {
	p.advance() // "alias"
	n := &Node{Kind: KAlias}
	if p.cur().Kind == TokIdentifier {
		n.Name = p.advance().Text
		n.NameSpan = p.toks[p.pos-1].Span
	}
	if p.atKeyword("for") {
		p.advance()
		n.AliasTarget, _ = p.parseDottedName()
	}
	if p.atPunct(";") {
		p.advance()
	}
	n.Span = p.spanSince(start)
	return n
}

// parseConstruct parses a Definition or Usage body: optional short name,
// optional name, zero or more relation clauses (typing/specialization/
// subsetting/redefinition/reference/metadata), an optional value
// assignment, and a body or terminating ';'.
func (p *parser) parseConstruct(start Span, keyword string, isDef bool, mods map[string]bool, direction string) *Node {
	n := &Node{Kind: KUsage, Keyword: keyword, IsDef: isDef, Modifiers: mods, Direction: direction}
	if isDef {
		n.Kind = KDefinition
	}

	if p.atPunct("<") {
		p.advance()
		if p.cur().Kind == TokIdentifier {
			n.ShortName = p.advance().Text
			n.ShortNameSpan = p.toks[p.pos-1].Span
			n.HasShortName = true
		}
		if p.atPunct(">") {
			p.advance()
		}
	}

	if p.cur().Kind == TokIdentifier {
		n.Name = p.advance().Text
		n.NameSpan = p.toks[p.pos-1].Span
	}

	for {
		if p.cur().Kind == TokPunct && len(p.cur().Text) > 0 && p.cur().Text[0] == '#' {
			n.Metadata = append(n.Metadata, p.advance().Text[1:])
			continue
		}
		if kind, ok := refOperator(p.cur()); ok {
			opSpan := p.cur().Span
			p.advance()
			n.TypeRefs = append(n.TypeRefs, p.parseTypeRefChain(kind, opSpan))
			if p.atPunct(",") {
				p.advance()
				continue
			}
			continue
		}
		if p.atKeyword("dependency") {
			n.Relationships = append(n.Relationships, p.parseDependency())
			continue
		}
		if p.atPunct("=") {
			p.advance()
			valueStart := p.pos
			refs := p.captureExpressionRefs()
			n.TypeRefs = append(n.TypeRefs, refs...)
			n.Value = joinTokens(p.toks[valueStart:p.pos])
			break
		}
		break
	}

	// ":>" on a Usage binds as Subsets, on a Definition as Specializes,
	// regardless of what the right-hand side denotes.
	if n.Kind == KUsage {
		for _, ref := range n.TypeRefs {
			if ref.Kind == RefSpecializes {
				ref.Kind = RefSubsets
			}
		}
	}

	if p.atPunct("{") {
		if keyword == "view" || keyword == "viewpoint" {
			n.Children = p.parseViewBody(n)
		} else {
			n.Children = p.parseBody()
		}
	} else if p.atPunct(";") {
		p.advance()
	}
	n.Span = p.spanSince(start)
	return n
}

// parseViewBody parses a view/viewpoint body, where "expose" and "filter"
// are statements alongside ordinary nested members.
func (p *parser) parseViewBody(container *Node) []*Node {
	p.advance() // "{"
	var members []*Node
	var pendingDoc string
	for {
		for p.cur().Kind == TokComment || p.cur().Kind == TokDocComment {
			t := p.advance()
			if t.Kind == TokDocComment {
				pendingDoc = trimComment(t.Text)
			}
		}
		if p.cur().Kind == TokEOF || p.atPunct("}") {
			break
		}
		if p.atKeyword("expose") {
			container.Exposes = append(container.Exposes, p.parseExpose())
			continue
		}
		if p.atKeyword("filter") {
			p.advance()
			container.Filters = append(container.Filters, p.captureExpressionUntilSemiOrBrace())
			continue
		}
		startPos := p.pos
		m := p.parseMember()
		if m == nil {
			if p.pos == startPos {
				p.errorf(p.cur().Span, "unexpected token %q", p.cur().Text)
				p.advance()
			}
			continue
		}
		m.Doc = pendingDoc
		pendingDoc = ""
		members = append(members, m)
	}
	if p.atPunct("}") {
		p.advance()
	} else {
		p.errorf(p.cur().Span, "expected '}'")
	}
	return members
}

func refOperator(t Token) (RefKind, bool) {
	if t.Kind != TokPunct {
		return 0, false
	}
	switch t.Text {
	case ":":
		return RefTyping, true
	case ":>":
		return RefSpecializes, true // disambiguated def-vs-usage by caller
	case ":>>":
		return RefRedefines, true
	case "::>":
		return RefReferences, true
	}
	return 0, false
}

func (p *parser) parseTypeRefChain(kind RefKind, opSpan Span) *TypeRef {
	ref := &TypeRef{Kind: kind, Span: opSpan}
	for {
		if p.cur().Kind != TokIdentifier {
			break
		}
		tok := p.advance()
		ref.Parts = append(ref.Parts, ChainPart{Text: tok.Text, Span: tok.Span})
		if p.atPunct(".") {
			p.advance()
			continue
		}
		break
	}
	if len(ref.Parts) > 0 {
		ref.Span = mergeSpan(opSpan, ref.Parts[len(ref.Parts)-1].Span)
	}
	return ref
}

func (p *parser) parseDependency() *Relationship {
	start := p.cur().Span
	p.advance() // "dependency"
	r := &Relationship{Kind: "dependency"}
	if p.atKeyword("from") {
		p.advance()
		r.From, _ = p.parseDottedName()
	}
	if p.atKeyword("to") {
		p.advance()
		r.To, _ = p.parseDottedName()
	}
	if p.atPunct(";") {
		p.advance()
	}
	r.Span = p.spanSince(start)
	return r
}

func (p *parser) parseExpose() ExposeClause {
	start := p.cur().Span
	p.advance() // "expose"
	name, _ := p.parseDottedName()
	kind := WildcardNone
	for p.atPunct("*") || p.atPunct("**") {
		if p.atPunct("**") {
			kind = WildcardRecursive
		} else if kind == WildcardNone {
			kind = WildcardDirect
		}
		p.advance()
		if p.atPunct("::") {
			p.advance()
		}
	}
	if p.atPunct(";") {
		p.advance()
	}
	return ExposeClause{Target: name, Kind: kind, Span: p.spanSince(start)}
}

// parseDottedName reads an Identifier("::"Identifier)* path, stopping
// before a trailing wildcard marker so callers can interpret it.
func (p *parser) parseDottedName() (string, Span) {
	start := p.cur().Span
	var parts []string
	for {
		if p.cur().Kind != TokIdentifier {
			break
		}
		parts = append(parts, p.advance().Text)
		if p.atPunct("::") {
			// Peek ahead: if next is a wildcard marker, leave it for the caller.
			if p.toks[min(p.pos+1, len(p.toks)-1)].Text == "*" || p.toks[min(p.pos+1, len(p.toks)-1)].Text == "**" {
				p.advance() // consume "::" before wildcard
				continue
			}
			p.advance()
			continue
		}
		break
	}
	end := start
	if p.pos > 0 {
		end = p.toks[p.pos-1].Span
	}
	joined := ""
	for i, part := range parts {
		if i > 0 {
			joined += "::"
		}
		joined += part
	}
	return joined, mergeSpan(start, end)
}

// captureExpressionRefs scans tokens up to the next top-level ';' or '}'
// and emits an Expression TypeRef for every identifier (or dotted-identifier
// chain) encountered. The expression body itself is not structurally
// parsed: it is opaque token scanning.
func (p *parser) captureExpressionRefs() []*TypeRef {
	var refs []*TypeRef
	depth := 0
	for {
		t := p.cur()
		if t.Kind == TokEOF {
			break
		}
		if t.Kind == TokPunct && (t.Text == "{" || t.Text == "(") {
			depth++
			p.advance()
			continue
		}
		if t.Kind == TokPunct && (t.Text == "}" || t.Text == ")") {
			if depth == 0 {
				break
			}
			depth--
			p.advance()
			continue
		}
		if depth == 0 && t.Kind == TokPunct && t.Text == ";" {
			p.advance()
			break
		}
		if t.Kind == TokIdentifier {
			start := t.Span
			ref := &TypeRef{Kind: RefExpression, Span: start}
			for p.cur().Kind == TokIdentifier {
				tok := p.advance()
				ref.Parts = append(ref.Parts, ChainPart{Text: tok.Text, Span: tok.Span})
				if p.atPunct(".") {
					p.advance()
					continue
				}
				break
			}
			if len(ref.Parts) > 0 {
				ref.Span = mergeSpan(start, ref.Parts[len(ref.Parts)-1].Span)
				refs = append(refs, ref)
			}
			continue
		}
		p.advance()
	}
	return refs
}

func (p *parser) captureExpressionUntilSemiOrBrace() string {
	start := p.pos
	depth := 0
	for {
		t := p.cur()
		if t.Kind == TokEOF {
			break
		}
		if t.Kind == TokPunct && (t.Text == "{" || t.Text == "(") {
			depth++
			p.advance()
			continue
		}
		if t.Kind == TokPunct && (t.Text == "}" || t.Text == ")") {
			if depth == 0 {
				break
			}
			depth--
			p.advance()
			continue
		}
		if depth == 0 && t.Kind == TokPunct && t.Text == ";" {
			p.advance()
			break
		}
		p.advance()
	}
	end := p.pos
	if end > start && p.toks[end-1].Text == ";" {
		end--
	}
	var sb []byte
	for i := start; i < end; i++ {
		if i > start {
			sb = append(sb, ' ')
		}
		sb = append(sb, []byte(p.toks[i].Text)...)
	}
	return string(sb)
}

func (p *parser) parseBody() []*Node {
	p.advance() // "{"
	members := p.parseMembers(Span{})
	if p.atPunct("}") {
		p.advance()
	} else {
		p.errorf(p.cur().Span, "expected '}'")
	}
	return members
}

func (p *parser) parseBodyOrEmpty() []*Node {
	if p.atPunct("{") {
		return p.parseBody()
	}
	if p.atPunct(";") {
		p.advance()
	}
	return nil
}

func (p *parser) spanSince(start Span) Span {
	if p.pos == 0 {
		return start
	}
	end := p.toks[p.pos-1].Span
	return mergeSpan(start, end)
}

func joinTokens(toks []Token) string {
	var sb []byte
	for i, t := range toks {
		if t.Text == ";" {
			break
		}
		if i > 0 {
			sb = append(sb, ' ')
		}
		sb = append(sb, []byte(t.Text)...)
	}
	return string(sb)
}

func mergeSpan(a, b Span) Span {
	s := a
	if b.EndByte > s.EndByte {
		s.EndLine, s.EndCol, s.EndByte = b.EndLine, b.EndCol, b.EndByte
	}
	if b.StartByte < s.StartByte {
		s.StartLine, s.StartCol, s.StartByte = b.StartLine, b.StartCol, b.StartByte
	}
	return s
}
