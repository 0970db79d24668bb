package storageproof

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeader_BranchNonMaxNibbleCount(t *testing.T) {
	// top bits 10 (branch, no value), low 6 bits = 2 nibbles, partial key
	// byte 0xAB, children bitmap 0x0003 (slots 0 and 1 present).
	data := []byte{0b10_000010, 0xAB, 0x03, 0x00}
	hd, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, KindBranchWithoutValue, hd.Kind)
	require.Equal(t, 2, hd.NibbleCount)
	require.True(t, hd.ChildPresent(0))
	require.True(t, hd.ChildPresent(1))
	require.False(t, hd.ChildPresent(2))
}

func TestParseHeader_MaxNibbleCountExtension(t *testing.T) {
	// low 6 bits = 63 (max), one continuation byte 0xFF, then a
	// non-0xFF terminator byte adding 5 more nibbles: total 63+255+5=323.
	data := []byte{0b01_111111, 0xFF, 0x05}
	data = append(data, make([]byte, 162)...) // room for a 323-nibble (162-byte) partial key
	hd, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, KindHashedValueLeaf, hd.Kind)
	require.Equal(t, 63+255+5, hd.NibbleCount)
}

func TestWalkPath_MismatchedKeyErrors(t *testing.T) {
	data := []byte{0b10_000010, 0xAB, 0x01, 0x00}
	_, err := WalkPath([][]byte{data}, []byte{0x0, 0x1, 0x0}) // wrong second nibble
	require.Error(t, err)
}
