package bibtex

import "texlab/internal/syntax/green"

// Token kinds, per spec §4.3.
const (
	KindWhitespace green.Kind = iota + 1
	KindAt             // '@'-type marker: @preamble|@string|@comment|@<entry-type>
	KindWord
	KindLCurly
	KindRCurly
	KindLParen
	KindRParen
	KindComma
	KindEq
	KindHash // '#' string concatenation
	KindQuote
	KindAccentName
	KindCommandName
	KindInteger
	KindName
	KindNBSP
	KindError
)

// Node kinds, per spec §4.3.
const (
	KindRoot green.Kind = iota + 100
	KindPreamble
	KindStringDef
	KindEntry
	KindJunk
	KindField
	KindConcat // value joined by '#'
	KindQuotedLiteral
	KindBracedLiteral
)
