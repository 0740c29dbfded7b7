package lineindex

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestDecodeSourcePassesThroughPlainUTF8(t *testing.T) {
	out, err := DecodeSource([]byte("\\section{Hello}\n"))
	require.NoError(t, err)
	require.Equal(t, "\\section{Hello}\n", out)
}

func TestDecodeSourceConvertsUTF16LEWithBOM(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	raw, err := enc.NewEncoder().Bytes([]byte("\\section{Héllo}\n"))
	require.NoError(t, err)

	out, err := DecodeSource(raw)
	require.NoError(t, err)
	require.Equal(t, "\\section{Héllo}\n", out)
}
