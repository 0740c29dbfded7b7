package latex

// Role classifies a generic command name's semantic meaning, per spec §4.2.
// Classification is fully data-driven: a CommandDatabase maps command name
// (without the leading backslash, without a trailing '*') to a Role, and
// Extend can add to or override the default mapping. Documents are always
// parsed with the default mapping; no configuration setting extends it.
type Role int

const (
	RoleNone Role = iota
	RoleBeginEnvironment
	RoleEndEnvironment
	RoleBeginEquation
	RoleEndEquation
	RolePart
	RoleChapter
	RoleSection
	RoleSubsection
	RoleSubsubsection
	RoleParagraph
	RoleSubparagraph
	RoleEnumItem
	RoleCaption
	RoleCitation
	RoleIncludePackage
	RoleIncludeClass
	RoleIncludeLatex
	RoleIncludeBiblatex
	RoleIncludeBibtex
	RoleIncludeGraphics
	RoleIncludeSvg
	RoleIncludeInkscape
	RoleIncludeVerbatim
	RoleImport
	RoleLabelDefinition
	RoleLabelReference
	RoleLabelReferenceRange
	RoleLabelNumber
	RoleOldCommandDefinition
	RoleNewCommandDefinition
	RoleMathOperator
	RoleGlossaryEntryDefinition
	RoleGlossaryEntryReference
	RoleAcronymDefinition
	RoleAcronymDeclaration
	RoleAcronymReference
	RoleTheoremDefinitionOld
	RoleTheoremDefinitionNew
	RoleColorReference
	RoleColorDefinition
	RoleColorSetDefinition
	RoleTikzLibraryImport
	RoleEnvironmentDefinition
	RoleGraphicsPath
	RoleBeginBlockComment
	RoleEndBlockComment
	RoleVerbatimBlock
	RoleBibitem
	RoleTocContentsLine
	RoleTocNumberLine
	RoleDocumentClass
)

// CommandDatabase holds the name->Role mapping used to classify generic
// commands during parsing. The zero value classifies nothing; use
// DefaultCommandDatabase for the built-in mapping.
type CommandDatabase struct {
	roles map[string]Role
}

// NewCommandDatabase builds an empty database.
func NewCommandDatabase() *CommandDatabase {
	return &CommandDatabase{roles: make(map[string]Role)}
}

// Extend registers (or overrides) a name->Role mapping;
// DefaultCommandDatabase builds the built-in classification with it.
func (db *CommandDatabase) Extend(name string, role Role) {
	db.roles[name] = role
}

// Role looks up a command's role by name (without leading backslash, and
// with any trailing '*' already stripped by the caller).
func (db *CommandDatabase) Role(name string) Role {
	if r, ok := db.roles[name]; ok {
		return r
	}
	return RoleNone
}

// DefaultCommandDatabase returns the built-in classification covering the
// common LaTeX/LaTeX-package command vocabulary named in spec §4.2.
func DefaultCommandDatabase() *CommandDatabase {
	db := NewCommandDatabase()
	set := func(role Role, names ...string) {
		for _, n := range names {
			db.Extend(n, role)
		}
	}

	set(RoleBeginEnvironment, "begin")
	set(RoleEndEnvironment, "end")
	set(RoleBeginEquation, "[")
	set(RoleEndEquation, "]")

	set(RolePart, "part")
	set(RoleChapter, "chapter")
	set(RoleSection, "section")
	set(RoleSubsection, "subsection")
	set(RoleSubsubsection, "subsubsection")
	set(RoleParagraph, "paragraph")
	set(RoleSubparagraph, "subparagraph")

	set(RoleEnumItem, "item")
	set(RoleCaption, "caption")

	set(RoleCitation, "cite", "citep", "citet", "citeauthor", "citeyear",
		"parencite", "textcite", "footcite", "nocite", "citealt", "citealp")

	set(RoleDocumentClass, "documentclass")
	set(RoleIncludePackage, "usepackage", "RequirePackage")
	set(RoleIncludeClass, "documentclass", "LoadClass")
	set(RoleIncludeLatex, "include", "input", "subfile", "subfileinclude")
	set(RoleIncludeBiblatex, "addbibresource")
	set(RoleIncludeBibtex, "bibliography")
	set(RoleIncludeGraphics, "includegraphics")
	set(RoleIncludeSvg, "includesvg")
	set(RoleIncludeInkscape, "includeinkscape")
	set(RoleIncludeVerbatim, "verbatiminput", "lstinputlisting")
	set(RoleImport, "import", "subimport", "inputfrom", "includefrom")

	set(RoleLabelDefinition, "label")
	set(RoleLabelReference, "ref", "eqref", "autoref", "cref", "Cref", "nameref", "vref")
	set(RoleLabelReferenceRange, "crefrange", "Crefrange")
	set(RoleLabelNumber, "newlabel")

	set(RoleOldCommandDefinition, "def", "gdef", "edef", "xdef")
	set(RoleNewCommandDefinition, "newcommand", "renewcommand", "providecommand",
		"DeclareMathOperator", "NewDocumentCommand")
	set(RoleMathOperator, "DeclareMathOperator")

	set(RoleGlossaryEntryDefinition, "newglossaryentry", "longnewglossaryentry")
	set(RoleGlossaryEntryReference, "gls", "Gls", "glspl", "Glspl")
	set(RoleAcronymDefinition, "newacronym")
	set(RoleAcronymDeclaration, "DeclareAcronym")
	set(RoleAcronymReference, "acrshort", "acrlong", "acrfull", "ac", "Ac")

	set(RoleTheoremDefinitionOld, "newtheorem")
	set(RoleTheoremDefinitionNew, "declaretheorem", "newmdtheoremenv")

	set(RoleColorReference, "color", "textcolor", "pagecolor")
	set(RoleColorDefinition, "definecolor")
	set(RoleColorSetDefinition, "definecolorset")

	set(RoleTikzLibraryImport, "usetikzlibrary", "usepgflibrary")
	set(RoleEnvironmentDefinition, "newenvironment", "renewenvironment")
	set(RoleGraphicsPath, "graphicspath")

	set(RoleBeginBlockComment, "iffalse")
	set(RoleEndBlockComment, "fi")
	set(RoleVerbatimBlock, "begin{verbatim}")
	set(RoleBibitem, "bibitem")

	set(RoleTocContentsLine, "contentsline")
	set(RoleTocNumberLine, "numberline")

	return db
}
