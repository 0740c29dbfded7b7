// Package buildlog scans LaTeX build-tool log prose for standard diagnostic
// patterns, per spec §4.4. It does not know about the workspace; mapping a
// BuildError's relative path to a workspace Document happens in the
// diagnostics query (spec §4.9).
package buildlog

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Level is the severity of a build diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

// BuildError is one diagnostic mined from a build log, per spec §4.4.
type BuildError struct {
	RelativePath string
	Level        Level
	Message      string
	Hint         string
	Line         *int
}

var (
	// "./foo.tex:12: Undefined control sequence."
	texLineError = regexp.MustCompile(`^(.+\.(?:tex|sty|cls)):(\d+):\s*(.+)$`)
	// "! LaTeX Error: ..." possibly followed by a hint line starting with "See the LaTeX manual" etc.
	bangError = regexp.MustCompile(`^!\s*(.+)$`)
	// "LaTeX Warning: Citation `foo' on page 1 undefined on input line 12."
	latexWarning = regexp.MustCompile(`^LaTeX Warning:\s*(.+?)(?:\s+on input line (\d+)\.)?$`)
	// "Package biblatex Warning: ..."
	packageWarning = regexp.MustCompile(`^Package (\S+) Warning:\s*(.+)$`)
	// "l.12 ..." gives the line a preceding "!" error refers to.
	lineMarker = regexp.MustCompile(`^l\.(\d+)\s`)
	// "(./foo.tex" / "(foo.tex" file-stack open marker used to track the
	// "current file" context for errors that don't carry a path themselves.
	fileOpen = regexp.MustCompile(`\(([./][^\s()]*\.(?:tex|sty|cls))`)
	// "Undefined control sequence" bang errors get a canned hint since the
	// log itself never explains the likely cause.
	undefinedControlSeq = regexp.MustCompile(`Undefined control sequence`)
)

// Scan parses a build-log's full text and returns every BuildError found,
// in the order they appear.
func Scan(text string) []BuildError {
	var errs []BuildError
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	currentFile := ""
	var pending *BuildError

	flush := func() {
		if pending != nil {
			errs = append(errs, *pending)
			pending = nil
		}
	}

	for sc.Scan() {
		line := sc.Text()

		if m := fileOpen.FindStringSubmatch(line); m != nil {
			currentFile = m[1]
		}

		if m := texLineError.FindStringSubmatch(line); m != nil {
			flush()
			n, _ := strconv.Atoi(m[2])
			errs = append(errs, BuildError{
				RelativePath: m[1],
				Level:        LevelError,
				Message:      strings.TrimSpace(m[3]),
				Line:         &n,
			})
			continue
		}

		if m := bangError.FindStringSubmatch(line); m != nil {
			flush()
			pending = &BuildError{
				RelativePath: currentFile,
				Level:        LevelError,
				Message:      strings.TrimSpace(m[1]),
			}
			if undefinedControlSeq.MatchString(pending.Message) {
				pending.Hint = "check for a missing package or a typo in the command name"
			}
			continue
		}

		if pending != nil {
			if m := lineMarker.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[1])
				pending.Line = &n
				flush()
				continue
			}
			// Next blank-ish or unrelated line ends the pending error's
			// context without a line number.
			if strings.TrimSpace(line) == "" {
				flush()
				continue
			}
		}

		if m := latexWarning.FindStringSubmatch(line); m != nil {
			var lp *int
			if m[2] != "" {
				n, _ := strconv.Atoi(m[2])
				lp = &n
			}
			errs = append(errs, BuildError{
				RelativePath: currentFile,
				Level:        LevelWarning,
				Message:      strings.TrimSpace(m[1]),
				Line:         lp,
			})
			continue
		}

		if m := packageWarning.FindStringSubmatch(line); m != nil {
			errs = append(errs, BuildError{
				RelativePath: currentFile,
				Level:        LevelWarning,
				Message:      m[1] + ": " + strings.TrimSpace(m[2]),
			})
			continue
		}
	}
	flush()
	return errs
}
