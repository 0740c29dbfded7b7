package lineindex

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeSource converts raw file bytes read from disk into a UTF-8 string
// ready for New. Editor-delivered LSP text is always UTF-8 already, but
// files read straight off disk (the check subcommand, build artifacts the
// file watcher loads) can be UTF-16 with a byte-order mark: some Windows TeX
// distributions and editors default to that encoding for new files. Bytes
// without a BOM pass straight through as UTF-8.
func DecodeSource(raw []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return string(raw), err
	}
	return string(out), nil
}
