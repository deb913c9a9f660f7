package cst

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer scans UTF-8 source bytes into a flat token stream. Whitespace is
// skipped without producing a token; comments are kept as trivia tokens
// (TokComment/TokDocComment). Every token carries its byte span, but the
// whitespace between tokens is not represented in the stream.
type lexer struct {
	src  []byte
	pos  int
	line int
	col  int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, pos: 0, line: 0, col: 0}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return b
}

func (l *lexer) here() (int, int, int) { return l.line, l.col, l.pos }

// Lex scans the entire source into a token slice terminated by a TokEOF
// token, never returning an error — a byte that starts no other kind of
// token becomes a single-byte TokPunct token and the scan continues.
func Lex(src []byte) []Token {
	l := newLexer(src)
	var toks []Token
	for {
		t := l.next()
		toks = append(toks, t)
		if t.Kind == TokEOF {
			break
		}
	}
	return toks
}

func (l *lexer) next() Token {
	for l.pos < len(l.src) {
		b := l.peekByte()
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.advance()
			continue
		case b == '/' && l.peekByteAt(1) == '/':
			return l.lineComment()
		case b == '/' && l.peekByteAt(1) == '*':
			return l.blockComment()
		default:
			return l.token()
		}
	}
	return Token{Kind: TokEOF, Span: l.spanHere()}
}

func (l *lexer) spanHere() Span {
	line, col, byt := l.here()
	return Span{StartLine: line, StartCol: col, EndLine: line, EndCol: col, StartByte: byt, EndByte: byt}
}

func (l *lexer) lineComment() Token {
	startLine, startCol, startByte := l.here()
	l.advance()
	l.advance()
	for l.pos < len(l.src) && l.peekByte() != '\n' {
		l.advance()
	}
	text := string(l.src[startByte:l.pos])
	kind := TokComment
	if strings.HasPrefix(text, "///") {
		kind = TokDocComment
	}
	return Token{
		Kind: kind,
		Text: text,
		Span: Span{StartLine: startLine, StartCol: startCol, EndLine: l.line, EndCol: l.col, StartByte: startByte, EndByte: l.pos},
	}
}

func (l *lexer) blockComment() Token {
	startLine, startCol, startByte := l.here()
	l.advance()
	l.advance()
	isDoc := l.peekByte() == '*'
	for l.pos < len(l.src) {
		if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
			l.advance()
			l.advance()
			break
		}
		l.advance()
	}
	text := string(l.src[startByte:l.pos])
	kind := TokComment
	if isDoc {
		kind = TokDocComment
	}
	return Token{
		Kind: kind,
		Text: text,
		Span: Span{StartLine: startLine, StartCol: startCol, EndLine: l.line, EndCol: l.col, StartByte: startByte, EndByte: l.pos},
	}
}

// multiCharPuncts, longest first, so "::>" is not mis-split into "::" + ">".
var multiCharPuncts = []string{"::>", ":>>", "::", ":>", "**", "<", ">"}

func (l *lexer) token() Token {
	startLine, startCol, startByte := l.here()
	b := l.peekByte()

	switch {
	case b == '"':
		return l.stringLit(startLine, startCol, startByte)
	case isDigit(b):
		return l.numberLit(startLine, startCol, startByte)
	case isIdentStart(b):
		return l.identOrKeyword(startLine, startCol, startByte)
	case b == '#':
		l.advance()
		// metadata prefix "#Name"
		for l.pos < len(l.src) && isIdentPart(l.peekByte()) {
			l.advance()
		}
		return Token{Kind: TokPunct, Text: string(l.src[startByte:l.pos]), Span: l.spanFrom(startLine, startCol, startByte)}
	default:
		for _, p := range multiCharPuncts {
			if hasPrefixAt(l.src, l.pos, p) {
				for range p {
					l.advance()
				}
				return Token{Kind: TokPunct, Text: p, Span: l.spanFrom(startLine, startCol, startByte)}
			}
		}
		l.advance()
		return Token{Kind: TokPunct, Text: string(b), Span: l.spanFrom(startLine, startCol, startByte)}
	}
}

func hasPrefixAt(src []byte, pos int, prefix string) bool {
	if pos+len(prefix) > len(src) {
		return false
	}
	return string(src[pos:pos+len(prefix)]) == prefix
}

func (l *lexer) spanFrom(line, col, byt int) Span {
	return Span{StartLine: line, StartCol: col, EndLine: l.line, EndCol: l.col, StartByte: byt, EndByte: l.pos}
}

func (l *lexer) stringLit(line, col, byt int) Token {
	l.advance()
	for l.pos < len(l.src) && l.peekByte() != '"' {
		if l.peekByte() == '\\' {
			l.advance()
		}
		if l.pos < len(l.src) {
			l.advance()
		}
	}
	if l.pos < len(l.src) {
		l.advance()
	}
	return Token{Kind: TokString, Text: string(l.src[byt:l.pos]), Span: l.spanFrom(line, col, byt)}
}

func (l *lexer) numberLit(line, col, byt int) Token {
	for l.pos < len(l.src) && (isDigit(l.peekByte()) || l.peekByte() == '.') {
		l.advance()
	}
	return Token{Kind: TokNumber, Text: string(l.src[byt:l.pos]), Span: l.spanFrom(line, col, byt)}
}

func (l *lexer) identOrKeyword(line, col, byt int) Token {
	for l.pos < len(l.src) && isIdentPart(l.peekByte()) {
		l.advance()
	}
	text := string(l.src[byt:l.pos])
	kind := TokIdentifier
	if IsKeyword(text) {
		kind = TokKeyword
	}
	return Token{Kind: kind, Text: text, Span: l.spanFrom(line, col, byt)}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	if b < utf8.RuneSelf {
		return b == '_' || unicode.IsLetter(rune(b))
	}
	return true
}

func isIdentPart(b byte) bool {
	if b < utf8.RuneSelf {
		return b == '_' || unicode.IsLetter(rune(b)) || isDigit(b)
	}
	return true
}
