package semantics

import "regexp"

// newLabelRe matches \newlabel{name}{{number}{page}...} entries in a .aux
// file. Only the first two brace groups are meaningful for hover/inlay
// hints (spec §4.8): the label name and its rendered number.
var newLabelRe = regexp.MustCompile(`\\newlabel\{([^}]*)\}\{\{([^}]*)\}`)

// ExtractAuxiliary mines \newlabel{name}{{number}{page}} entries out of a
// .aux file's raw text, producing the label-number map that hover and
// inlay-hint queries render at label definitions (spec §4.8). This is a
// secondary, regex-based pass distinct from the LaTeX parser/extractor
// above because .aux files are machine-generated and not meant to be
// re-parsed as general LaTeX; texlab's own aux miner works the same way.
func ExtractAuxiliary(text string) map[string]string {
	out := make(map[string]string)
	for _, m := range newLabelRe.FindAllStringSubmatch(text, -1) {
		out[m[1]] = m[2]
	}
	return out
}
