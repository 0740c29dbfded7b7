package buildlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanLineError(t *testing.T) {
	log := "./main.tex:12: Undefined control sequence.\n"
	errs := Scan(log)
	require.Len(t, errs, 1)
	require.Equal(t, LevelError, errs[0].Level)
	require.Equal(t, "./main.tex", errs[0].RelativePath)
	require.NotNil(t, errs[0].Line)
	require.Equal(t, 12, *errs[0].Line)
}

func TestScanLatexWarning(t *testing.T) {
	log := "LaTeX Warning: Citation `foo' on page 1 undefined on input line 12.\n"
	errs := Scan(log)
	require.Len(t, errs, 1)
	require.Equal(t, LevelWarning, errs[0].Level)
	require.NotNil(t, errs[0].Line)
	require.Equal(t, 12, *errs[0].Line)
}

func TestScanBangError(t *testing.T) {
	log := "(./main.tex\n! LaTeX Error: File not found.\nl.5 \\include{missing}\n"
	errs := Scan(log)
	require.Len(t, errs, 1)
	require.Equal(t, "./main.tex", errs[0].RelativePath)
	require.Equal(t, 5, *errs[0].Line)
}
