package bibtex

import (
	"strings"
	"texlab/internal/syntax/green"
)

type token struct {
	kind green.Kind
	text string
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func isWordByte(b byte) bool {
	switch b {
	case '\n', ' ', '\t', '\r', '{', '}', '(', ')', ',', '=', '#', '"', '@':
		return false
	default:
		return true
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (l *lexer) next() (token, bool) {
	if l.eof() {
		return token{}, false
	}
	start := l.pos
	b := l.src[l.pos]

	switch {
	case b == ' ' || b == '\t' || b == '\n' || b == '\r':
		for !l.eof() {
			c := l.peekByte()
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				break
			}
			l.pos++
		}
		return token{KindWhitespace, l.src[start:l.pos]}, true
	case b == '{':
		l.pos++
		return token{KindLCurly, l.src[start:l.pos]}, true
	case b == '}':
		l.pos++
		return token{KindRCurly, l.src[start:l.pos]}, true
	case b == '(':
		l.pos++
		return token{KindLParen, l.src[start:l.pos]}, true
	case b == ')':
		l.pos++
		return token{KindRParen, l.src[start:l.pos]}, true
	case b == ',':
		l.pos++
		return token{KindComma, l.src[start:l.pos]}, true
	case b == '=':
		l.pos++
		return token{KindEq, l.src[start:l.pos]}, true
	case b == '#':
		l.pos++
		return token{KindHash, l.src[start:l.pos]}, true
	case b == '"':
		l.pos++
		return token{KindQuote, l.src[start:l.pos]}, true
	case b == '@':
		l.pos++
		for !l.eof() && isWordByte(l.peekByte()) {
			l.pos++
		}
		return token{KindAt, l.src[start:l.pos]}, true
	case b == '\\':
		l.pos++
		for !l.eof() && (isLetter(l.peekByte())) {
			l.pos++
		}
		return token{KindAccentName, l.src[start:l.pos]}, true
	case isDigit(b):
		for !l.eof() && isDigit(l.peekByte()) {
			l.pos++
		}
		return token{KindInteger, l.src[start:l.pos]}, true
	default:
		for !l.eof() && isWordByte(l.peekByte()) {
			l.pos++
		}
		if l.pos == start {
			l.pos++
			return token{KindError, l.src[start:l.pos]}, true
		}
		word := l.src[start:l.pos]
		if isAllLetters(word) {
			return token{KindName, word}, true
		}
		return token{KindWord, word}, true
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAllLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) && s[i] != '_' && s[i] != '-' && s[i] != ':' {
			return false
		}
	}
	return true
}

// entryTypeOf strips the leading '@' and lower-cases, per the
// case-insensitive @-type rule in spec §4.3.
func entryTypeOf(atToken string) string {
	return strings.ToLower(strings.TrimPrefix(atToken, "@"))
}

// EntryType exposes entryTypeOf for callers outside the package (the
// semantic extraction pass needs the normalized type name, not the raw
// '@'-token text).
func EntryType(atToken string) string { return entryTypeOf(atToken) }
