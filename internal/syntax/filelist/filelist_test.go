package filelist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	text := "PWD /home/user/proj\nINPUT main.tex\nINPUT chapters/intro.tex\nOUTPUT main.aux\nOUTPUT main.pdf\n"
	fl := Parse(text)
	require.Equal(t, "/home/user/proj", fl.WorkingDir)
	require.Contains(t, fl.Inputs, "main.tex")
	require.Contains(t, fl.Inputs, "chapters/intro.tex")
	require.Contains(t, fl.Outputs, "main.pdf")
	require.Len(t, fl.Inputs, 2)
	require.Len(t, fl.Outputs, 2)
}
