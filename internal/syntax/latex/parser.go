package latex

import (
	"texlab/internal/syntax/green"
)

// SyntaxError is a parse-time diagnostic, tagged with the error code taxonomy
// from spec §7 and a byte range (relative to the parsed text).
type SyntaxError struct {
	Code  string
	Start uint32
	End   uint32
}

const (
	ErrUnexpectedRCurly     = "UnexpectedRCurly"
	ErrRCurlyInserted       = "RCurlyInserted"
	ErrMismatchedEnv        = "MismatchedEnvironment"
	ErrExpectingLCurly      = "ExpectingLCurly"
	ErrExpectingKey         = "ExpectingKey"
	ErrExpectingRCurly      = "ExpectingRCurly"
	ErrExpectingEq          = "ExpectingEq"
	ErrExpectingFieldValue  = "ExpectingFieldValue"
)

// Parse lexes and parses LaTeX source into a lossless green tree rooted at
// KindDocument, plus any syntax errors encountered. Parsing always succeeds
// in the sense that it returns a tree whose Text() equals src exactly (spec
// §8); malformed input produces error nodes/diagnostics rather than a nil
// tree (spec §7).
func Parse(src string, db *CommandDatabase) (*green.Node, []SyntaxError) {
	if db == nil {
		db = DefaultCommandDatabase()
	}
	var toks []token
	lx := newLexer(src)
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	p := &parser{toks: toks, db: db}
	root := p.parseDocument()
	return root, p.errs
}

type parser struct {
	toks []token
	pos  int
	db   *CommandDatabase
	errs []SyntaxError
	// envStack tracks the names of open \begin{name} environments, for
	// matching against \end and reporting MismatchedEnvironment (spec §4.2).
	envStack []envFrame
}

type envFrame struct {
	name string
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.eof() {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(off int) token {
	i := p.pos + off
	if i < 0 || i >= len(p.toks) {
		return token{}
	}
	return p.toks[i]
}

func (p *parser) bump() token {
	t := p.peek()
	p.pos++
	return t
}

// offsetAt returns the byte offset where the token at index i begins.
func (p *parser) offsetAt(i int) uint32 {
	var off uint32
	for j := 0; j < i && j < len(p.toks); j++ {
		off += uint32(len(p.toks[j].text))
	}
	return off
}

func (p *parser) curOffset() uint32 { return p.offsetAt(p.pos) }

func (p *parser) errorAt(code string, start, end uint32) {
	p.errs = append(p.errs, SyntaxError{Code: code, Start: start, End: end})
}

// isTrivia reports whether a token kind never participates in grammar
// decisions: it's always just appended to whatever node is currently open.
func isTrivia(k green.Kind) bool {
	return k == KindWhitespace || k == KindLineBreak || k == KindLineComment
}

// bumpTrivia appends any run of trivia tokens at the parser's current
// position directly onto b, without affecting control flow.
func (p *parser) bumpTrivia(b *green.Builder) {
	for !p.eof() && isTrivia(p.peek().kind) {
		t := p.bump()
		b.PushToken(t.kind, t.text)
	}
}

// parseDocument is the grammar root: content up to EOF.
func (p *parser) parseDocument() *green.Node {
	b := green.NewBuilder(KindDocument)
	p.parseContent(b, func() bool { return p.eof() })
	// Any unmatched \begin{...} left on the stack simply closes at EOF;
	// spec doesn't require reporting that as a separate error class beyond
	// MismatchedEnvironment, so it's silently tolerated (best-effort tree).
	return b.Finish()
}

// stopFn reports whether the content loop should stop without consuming the
// current token (the caller consumes its own terminator, e.g. `}` or
// `\end{...}`).
type stopFn func() bool

// parseContent parses a sequence of LaTeX constructs into b until stop()
// returns true or input is exhausted.
func (p *parser) parseContent(b *green.Builder, stop stopFn) {
	for {
		if p.eof() || stop() {
			return
		}
		p.parseOne(b)
	}
}

func (p *parser) parseOne(b *green.Builder) {
	tok := p.peek()
	switch tok.kind {
	case KindWhitespace, KindLineBreak, KindLineComment, KindWord, KindComma, KindPipe, KindEq:
		t := p.bump()
		b.PushToken(t.kind, t.text)
	case KindRCurly:
		// Stray `}` with no matching `{` in this scope.
		start := p.curOffset()
		t := p.bump()
		p.errorAt(ErrUnexpectedRCurly, start, start+uint32(len(t.text)))
		b.PushToken(t.kind, t.text)
	case KindLCurly:
		b.Push(p.parseCurlyGroup())
	case KindLBrack:
		b.Push(p.parseBrackGroup())
	case KindLParen:
		b.Push(p.parseParenGroup())
	case KindDollar:
		b.Push(p.parseEquation())
	case KindCommandName:
		p.parseCommand(b)
	default:
		// KindError or anything unrecognized: keep the byte, move on.
		t := p.bump()
		b.PushToken(t.kind, t.text)
	}
}

// parseCurlyGroup parses a `{ ... }` balanced group. Missing the closing
// brace is tolerated (best-effort recovery per spec §7): an error is
// recorded and parsing continues as if it were present at EOF.
func (p *parser) parseCurlyGroup() *green.Node {
	b := green.NewBuilder(KindCurlyGroup)
	start := p.curOffset()
	open := p.bump()
	b.PushToken(open.kind, open.text)
	p.parseContent(b, func() bool { return p.peek().kind == KindRCurly })
	if !p.eof() && p.peek().kind == KindRCurly {
		t := p.bump()
		b.PushToken(t.kind, t.text)
	} else {
		end := p.curOffset()
		if end == start {
			end = start + 1
		}
		p.errorAt(ErrExpectingRCurly, start, end)
	}
	return b.Finish()
}

func (p *parser) parseBrackGroup() *green.Node {
	b := green.NewBuilder(KindBrackGroup)
	open := p.bump()
	b.PushToken(open.kind, open.text)
	p.parseContent(b, func() bool {
		k := p.peek().kind
		return k == KindRBrack || k == KindRCurly
	})
	if !p.eof() && p.peek().kind == KindRBrack {
		t := p.bump()
		b.PushToken(t.kind, t.text)
	}
	return b.Finish()
}

func (p *parser) parseParenGroup() *green.Node {
	b := green.NewBuilder(KindParenGroup)
	open := p.bump()
	b.PushToken(open.kind, open.text)
	p.parseContent(b, func() bool {
		k := p.peek().kind
		return k == KindRParen || k == KindRCurly
	})
	if !p.eof() && p.peek().kind == KindRParen {
		t := p.bump()
		b.PushToken(t.kind, t.text)
	}
	return b.Finish()
}

// parseEquation parses a $...$ or $$...$$ inline/display math span.
func (p *parser) parseEquation() *green.Node {
	b := green.NewBuilder(KindEquation)
	open := p.bump()
	marker := open.text
	b.PushToken(open.kind, open.text)
	p.parseContent(b, func() bool {
		t := p.peek()
		return t.kind == KindDollar && t.text == marker
	})
	if !p.eof() && p.peek().kind == KindDollar {
		t := p.bump()
		b.PushToken(t.kind, t.text)
	}
	return b.Finish()
}

// nextIsImmediate reports whether the very next token (no intervening
// trivia) has one of the given kinds; LaTeX argument groups must follow a
// command name with no whitespace to be treated as its arguments.
func (p *parser) nextIsImmediate(kinds ...green.Kind) bool {
	if p.eof() {
		return false
	}
	k := p.peek().kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// takeCurlyArg consumes one curly-group argument if immediately present,
// returning nil otherwise (the caller records a missing-argument error if
// the argument was mandatory).
func (p *parser) takeCurlyArg() *green.Node {
	if p.nextIsImmediate(KindLCurly) {
		return p.parseCurlyGroup()
	}
	return nil
}

func (p *parser) takeBrackArg() *green.Node {
	if p.nextIsImmediate(KindLBrack) {
		return p.parseBrackGroup()
	}
	return nil
}

// parseCommand dispatches on the command's classified role (spec §4.2) to
// build the appropriate semantic node, or falls back to a GenericCommand
// that simply collects any immediately-adjacent optional/mandatory groups.
func (p *parser) parseCommand(b *green.Builder) {
	nameTok := p.peek()
	name := commandName(nameTok.text)
	role := p.db.Role(name)

	switch role {
	case RoleBeginEnvironment:
		b.Push(p.parseEnvironment())
		return
	case RoleEndEnvironment:
		// An \end with no matching \begin in this scope: emit the end
		// marker as its own node and report it structurally by the
		// caller (parseEnvironment handles the matched case; reaching
		// here means it's unmatched).
		b.Push(p.parseEnvironmentEndAlone())
		return
	case RolePart, RoleChapter, RoleSection, RoleSubsection, RoleSubsubsection,
		RoleParagraph, RoleSubparagraph:
		b.Push(p.parseSectionAt(role))
		return
	}

	start := p.curOffset()
	cmd := p.bump()
	kind := genericKindFor(role)
	cb := green.NewBuilder(kind)
	cb.PushToken(cmd.kind, cmd.text)

	switch role {
	case RoleCitation:
		p.requireCurly(cb, start)
	case RoleLabelDefinition, RoleLabelReference, RoleLabelNumber:
		p.requireCurly(cb, start)
	case RoleLabelReferenceRange:
		p.requireCurly(cb, start)
		if arg := p.takeCurlyArg(); arg != nil {
			cb.Push(arg)
		}
	case RoleIncludePackage, RoleIncludeClass, RoleIncludeLatex, RoleIncludeBiblatex,
		RoleIncludeBibtex, RoleIncludeVerbatim:
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		p.requireCurly(cb, start)
	case RoleIncludeGraphics, RoleIncludeSvg, RoleIncludeInkscape:
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		p.requireCurly(cb, start)
	case RoleImport:
		p.requireCurly(cb, start)
		p.requireCurly(cb, start)
	case RoleGraphicsPath, RoleTikzLibraryImport:
		p.requireCurly(cb, start)
	case RoleColorReference:
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		p.requireCurly(cb, start)
	case RoleColorDefinition:
		p.requireCurly(cb, start)
		p.requireCurly(cb, start)
		p.requireCurly(cb, start)
	case RoleColorSetDefinition:
		p.requireCurly(cb, start)
		p.requireCurly(cb, start)
	case RoleOldCommandDefinition:
		p.requireCurly(cb, start)
		p.requireCurly(cb, start)
	case RoleNewCommandDefinition, RoleMathOperator:
		p.requireCurly(cb, start)
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		p.requireCurly(cb, start)
	case RoleTheoremDefinitionOld:
		p.requireCurly(cb, start)
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		p.requireCurly(cb, start)
	case RoleTheoremDefinitionNew:
		p.requireCurly(cb, start)
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
	case RoleEnvironmentDefinition:
		p.requireCurly(cb, start)
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		p.requireCurly(cb, start)
		p.requireCurly(cb, start)
	case RoleGlossaryEntryDefinition, RoleAcronymDefinition, RoleAcronymDeclaration:
		p.requireCurly(cb, start)
		p.requireCurly(cb, start)
	case RoleGlossaryEntryReference, RoleAcronymReference:
		p.requireCurly(cb, start)
	case RoleEnumItem:
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
	case RoleCaption, RoleBibitem:
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		if arg := p.takeCurlyArg(); arg != nil {
			cb.Push(arg)
		}
	case RoleDocumentClass:
		if arg := p.takeBrackArg(); arg != nil {
			cb.Push(arg)
		}
		p.requireCurly(cb, start)
	case RoleTocContentsLine, RoleTocNumberLine:
		for p.nextIsImmediate(KindLCurly, KindLBrack) {
			if g := p.takeCurlyArg(); g != nil {
				cb.Push(g)
				continue
			}
			if g := p.takeBrackArg(); g != nil {
				cb.Push(g)
				continue
			}
		}
	default:
		// Unclassified command: greedily attach any immediately-adjacent
		// optional/mandatory argument groups, matching how a real macro
		// invocation like \textbf{bold text} or \foo[opt]{a}{b} reads.
		for p.nextIsImmediate(KindLCurly, KindLBrack) {
			if g := p.takeCurlyArg(); g != nil {
				cb.Push(g)
				continue
			}
			if g := p.takeBrackArg(); g != nil {
				cb.Push(g)
				continue
			}
		}
	}
	b.Push(cb.Finish())
}

// requireCurly consumes a mandatory curly-group argument, recording
// ErrExpectingLCurly if it isn't immediately present.
func (p *parser) requireCurly(cb *green.Builder, cmdStart uint32) {
	if arg := p.takeCurlyArg(); arg != nil {
		cb.Push(arg)
		return
	}
	here := p.curOffset()
	p.errorAt(ErrExpectingLCurly, here, here)
}

func genericKindFor(role Role) green.Kind {
	switch role {
	case RoleCitation:
		return KindCitation
	case RoleLabelDefinition:
		return KindLabelDefinition
	case RoleLabelReference:
		return KindLabelReference
	case RoleLabelReferenceRange:
		return KindLabelReferenceRange
	case RoleLabelNumber:
		return KindLabelNumber
	case RoleIncludePackage:
		return KindIncludePackage
	case RoleIncludeClass, RoleDocumentClass:
		return KindIncludeClass
	case RoleIncludeLatex:
		return KindIncludeLatex
	case RoleIncludeBiblatex, RoleIncludeBibtex:
		return KindIncludeBibtex
	case RoleIncludeGraphics:
		return KindIncludeGraphics
	case RoleIncludeSvg:
		return KindIncludeSvg
	case RoleIncludeInkscape:
		return KindIncludeInkscape
	case RoleIncludeVerbatim:
		return KindIncludeVerbatim
	case RoleImport:
		return KindImport
	case RoleGraphicsPath:
		return KindGraphicsPath
	case RoleColorReference:
		return KindColorReference
	case RoleColorDefinition:
		return KindColorDefinition
	case RoleColorSetDefinition:
		return KindColorSetDefinition
	case RoleOldCommandDefinition:
		return KindOldCommandDefinition
	case RoleNewCommandDefinition, RoleMathOperator:
		return KindNewCommandDefinition
	case RoleTheoremDefinitionOld, RoleTheoremDefinitionNew:
		return KindTheoremDefinition
	case RoleEnvironmentDefinition:
		return KindEnvironmentDefinition
	case RoleGlossaryEntryDefinition:
		return KindGlossaryEntryDefinition
	case RoleGlossaryEntryReference:
		return KindGlossaryEntryReference
	case RoleAcronymDefinition:
		return KindAcronymDefinition
	case RoleAcronymDeclaration:
		return KindAcronymDeclaration
	case RoleAcronymReference:
		return KindAcronymReference
	case RoleEnumItem:
		return KindEnumItem
	case RoleCaption:
		return KindCaption
	case RoleBibitem:
		return KindBibitem
	case RoleTikzLibraryImport:
		return KindTikzLibraryImport
	case RoleTocContentsLine:
		return KindTocContentsLine
	case RoleTocNumberLine:
		return KindTocNumberLine
	default:
		return KindGenericCommand
	}
}

// parseEnvironment parses \begin{name} ... \end{name}, matching by
// syntactic containment and name equality per spec §4.2. A mismatched
// \end{other} still closes the environment (best-effort recovery) but
// records MismatchedEnvironment on the end name's range.
func (p *parser) parseEnvironment() *green.Node {
	b := green.NewBuilder(KindEnvironment)
	beginNode, beginName := p.parseBeginMarker()
	b.Push(beginNode)
	p.envStack = append(p.envStack, envFrame{name: beginName})

	p.parseContent(b, func() bool {
		return p.atEndMarkerFor(beginName)
	})

	if p.atEnd() {
		endNode, endName, endNameStart, endNameEnd := p.parseEndMarkerCapture()
		if endName != beginName {
			p.errorAt(ErrMismatchedEnv, endNameStart, endNameEnd)
		}
		b.Push(endNode)
	}
	if len(p.envStack) > 0 {
		p.envStack = p.envStack[:len(p.envStack)-1]
	}
	return b.Finish()
}

func (p *parser) atEnd() bool {
	return !p.eof() && p.peek().kind == KindCommandName &&
		p.db.Role(commandName(p.peek().text)) == RoleEndEnvironment
}

// atEndMarkerFor reports whether the parser is sitting at any \end{...}: in
// a well-formed document this always closes the innermost \begin, so the
// content loop stops on any \end and lets parseEnvironment decide whether
// the name matches.
func (p *parser) atEndMarkerFor(_ string) bool {
	return p.atEnd()
}

// parseBeginMarker parses `\begin{name}` into an EnvironmentBegin node and
// returns it with the extracted name text.
func (p *parser) parseBeginMarker() (*green.Node, string) {
	b := green.NewBuilder(KindEnvironmentBegin)
	cmd := p.bump()
	b.PushToken(cmd.kind, cmd.text)
	name := ""
	if p.nextIsImmediate(KindLCurly) {
		group := p.parseCurlyGroup()
		name = innerWordText(group)
		b.Push(group)
	}
	// \begin{x}[opts] for environments that take an optional argument.
	if arg := p.takeBrackArg(); arg != nil {
		b.Push(arg)
	}
	return b.Finish(), name
}

func (p *parser) parseEndMarkerCapture() (*green.Node, string, uint32, uint32) {
	b := green.NewBuilder(KindEnvironmentEnd)
	cmd := p.bump()
	b.PushToken(cmd.kind, cmd.text)
	name := ""
	var nameStart, nameEnd uint32
	if p.nextIsImmediate(KindLCurly) {
		start := p.curOffset()
		group := p.parseCurlyGroup()
		name = innerWordText(group)
		nameStart, nameEnd = start, start+group.Len()
		b.Push(group)
	}
	return b.Finish(), name, nameStart, nameEnd
}

// parseEnvironmentEndAlone handles an \end encountered with no open
// \begin in scope: the end marker is kept as an EnvironmentEnd node and
// MismatchedEnvironment is recorded over its whole range.
func (p *parser) parseEnvironmentEndAlone() *green.Node {
	start := p.curOffset()
	node, _, _, _ := p.parseEndMarkerCapture()
	p.errorAt(ErrMismatchedEnv, start, start+node.Len())
	return node
}

// innerWordText extracts the plain-text name out of a CurlyGroup built from
// a single Word token, e.g. the "foo" in \begin{foo}. For a multi-token name
// it returns only the first Word token's text, and "" if there is none.
func innerWordText(group *green.Node) string {
	for _, c := range group.Children() {
		if tok, ok := c.(*green.Token); ok && tok.Kind() == KindWord {
			return tok.Text()
		}
	}
	return ""
}

// sectionStops reports whether the token at the parser's current position
// starts a section-like command whose level is <= level, which terminates
// the current section's body (spec §8 scenario 4: a section's fold/extent
// runs to the start of the next same-or-higher section, or document end).
func (p *parser) sectionStops(level int) bool {
	if p.eof() || p.peek().kind != KindCommandName {
		return false
	}
	role := p.db.Role(commandName(p.peek().text))
	var other int
	switch role {
	case RolePart:
		other = 1
	case RoleChapter:
		other = 2
	case RoleSection:
		other = 3
	case RoleSubsection:
		other = 4
	case RoleSubsubsection:
		other = 5
	case RoleParagraph:
		other = 6
	case RoleSubparagraph:
		other = 7
	default:
		return false
	}
	return other <= level
}

var sectionKindByRole = map[Role]green.Kind{
	RolePart:          KindPart,
	RoleChapter:        KindChapter,
	RoleSection:        KindSection,
	RoleSubsection:     KindSubsection,
	RoleSubsubsection:  KindSubsubsection,
	RoleParagraph:      KindParagraph,
	RoleSubparagraph:   KindSubparagraph,
}

var sectionLevelByRole = map[Role]int{
	RolePart: 1, RoleChapter: 2, RoleSection: 3, RoleSubsection: 4,
	RoleSubsubsection: 5, RoleParagraph: 6, RoleSubparagraph: 7,
}

// parseSectionAt parses a sectioning command: \section{heading} followed by
// its body, up to (not including) the next same-or-higher-level sectioning
// command or end of input.
func (p *parser) parseSectionAt(role Role) *green.Node {
	level := sectionLevelByRole[role]
	kind := sectionKindByRole[role]
	b := green.NewBuilder(kind)
	cmd := p.bump()
	b.PushToken(cmd.kind, cmd.text)
	if arg := p.takeBrackArg(); arg != nil {
		b.Push(arg)
	}
	if arg := p.takeCurlyArg(); arg != nil {
		b.Push(arg)
	} else {
		here := p.curOffset()
		p.errorAt(ErrExpectingLCurly, here, here)
	}
	p.parseContent(b, func() bool {
		return p.sectionStops(level) || p.atEnd()
	})
	return b.Finish()
}
