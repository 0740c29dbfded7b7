// Package filelist parses .fls file-list output, per spec §4.4: line-
// oriented PWD/INPUT/OUTPUT records naming a build's working directory and
// the files it read from and wrote to.
package filelist

import (
	"bufio"
	"strings"
)

// FileList is the parsed contents of a .fls file. Inputs/Outputs preserve
// the order records appeared in the file, with later duplicates of the
// same path dropped, so anything built from them (project-graph edges) is
// deterministic.
type FileList struct {
	WorkingDir string // empty if no PWD record was present
	Inputs     []string
	Outputs    []string
}

// Parse reads .fls text and returns its FileList.
func Parse(text string) FileList {
	var fl FileList
	seenInput := map[string]struct{}{}
	seenOutput := map[string]struct{}{}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "PWD "):
			fl.WorkingDir = strings.TrimSpace(line[len("PWD "):])
		case strings.HasPrefix(line, "INPUT "):
			name := strings.TrimSpace(line[len("INPUT "):])
			if _, ok := seenInput[name]; !ok {
				seenInput[name] = struct{}{}
				fl.Inputs = append(fl.Inputs, name)
			}
		case strings.HasPrefix(line, "OUTPUT "):
			name := strings.TrimSpace(line[len("OUTPUT "):])
			if _, ok := seenOutput[name]; !ok {
				seenOutput[name] = struct{}{}
				fl.Outputs = append(fl.Outputs, name)
			}
		}
	}
	return fl
}
