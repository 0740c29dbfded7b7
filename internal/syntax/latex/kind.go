package latex

import "texlab/internal/syntax/green"

// Token kinds. One terminal per character class, per spec §4.2.
const (
	KindLineBreak green.Kind = iota + 1
	KindWhitespace
	KindLineComment
	KindLCurly
	KindRCurly
	KindLBrack
	KindRBrack
	KindLParen
	KindRParen
	KindComma
	KindEq
	KindPipe
	KindWord
	KindDollar   // $ or $$
	KindCommandName
	KindError // unrecognized byte, wrapped as an error token so all bytes are accounted for
)

// Node kinds, per spec §4.2.
const (
	KindDocument green.Kind = iota + 100
	KindPreamble
	KindPart
	KindChapter
	KindSection
	KindSubsection
	KindSubsubsection
	KindParagraph
	KindSubparagraph
	KindEnvironment
	KindEnvironmentBegin
	KindEnvironmentEnd
	KindEquation
	KindEquationBegin
	KindEquationEnd
	KindCurlyGroup
	KindBrackGroup
	KindParenGroup
	KindMixedGroup
	KindGenericCommand
	KindKey
	KindText
	KindCitation
	KindLabelDefinition
	KindLabelReference
	KindLabelReferenceRange
	KindLabelNumber
	KindGlossaryEntryDefinition
	KindGlossaryEntryReference
	KindAcronymDefinition
	KindAcronymDeclaration
	KindAcronymReference
	KindColorReference
	KindColorDefinition
	KindColorSetDefinition
	KindOldCommandDefinition
	KindNewCommandDefinition
	KindTheoremDefinition
	KindKeyValuePair
	KindKeyValueBody
	KindIncludeLatex
	KindIncludeBibtex
	KindIncludePackage
	KindIncludeClass
	KindIncludeGraphics
	KindIncludeSvg
	KindIncludeInkscape
	KindIncludeVerbatim
	KindImport
	KindGraphicsPath
	KindBlockComment
	KindBlockCommentBegin
	KindBlockCommentEnd
	KindVerbatimBlock
	KindBibitem
	KindTocContentsLine
	KindTocNumberLine
	KindEnumItem
	KindCaption
	KindMathOperator
	KindEnvironmentDefinition
	KindTikzLibraryImport
	KindParagraphBreak
	KindError_ // error recovery node wrapping an unexpected token
)

// SectionLevel reports the section-like level for a node kind, used by
// folding and symbols (§4.9) to build the heading hierarchy. Level 0 means
// "not a section".
func SectionLevel(k green.Kind) int {
	switch k {
	case KindPart:
		return 1
	case KindChapter:
		return 2
	case KindSection:
		return 3
	case KindSubsection:
		return 4
	case KindSubsubsection:
		return 5
	case KindParagraph:
		return 6
	case KindSubparagraph:
		return 7
	default:
		return 0
	}
}
