package sass

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `
	code for sm_20
		Function : _Z6litmusPiS_S_S_

	/*0000*/     MOV R1, c[0x1][0x100];              /* 0x2800440400005de4 */
	/*0008*/     S2R R0, SR_CTAID.X;                 /* 0x2c00000094001c04 */
	/*0010*/     S2R R2, SR_TID.X;                   /* 0x2c00000084009c04 */
	/*0018*/     IADD32I R3, R2, 0x7f3a0000;         /* 0x0800000000209c02 */
	/*0020*/     @!P0 ST.E [R4], R0;                 /* 0x9400000000411c85 */
	/*0028*/     MEMBAR.GL;                          /* 0xe000000000001c25 */
	/*0030*/     LD.E R5, [R6];                      /* 0x8400000000615c85 */
	/*0038*/     EXIT;                               /* 0x8000000000001de7 */
		..........................


`

// TestParseSample verifies filtering and cleaning on a realistic dump.
func TestParseSample(t *testing.T) {
	stream, err := Parse(sampleDump)
	require.NoError(t, err)
	require.Len(t, stream, 8)

	assert.Equal(t, "MOV R1, c[0x1][0x100];", stream[0])
	assert.Equal(t, "IADD32I R3, R2, 0x7f3a0000;", stream[3])
	assert.Equal(t, "@!P0 ST.E [R4], R0;", stream[4])
	assert.Equal(t, "EXIT;", stream[7])
}

// TestParseFiltersNonInstructions verifies header, separator and address-only
// lines never reach the stream.
func TestParseFiltersNonInstructions(t *testing.T) {
	stream, err := Parse(sampleDump)
	require.NoError(t, err)
	for _, ins := range stream {
		assert.NotContains(t, ins, "code for")
		assert.NotContains(t, ins, "Function")
		assert.NotContains(t, ins, "....")
		assert.NotContains(t, ins, "/*")
	}
}

// TestParseTooShort verifies streams under the minimum are rejected.
func TestParseTooShort(t *testing.T) {
	short := `
	/*0000*/     MOV R1, c[0x1][0x100];    /* 0x2800440400005de4 */
	/*0008*/     EXIT;                     /* 0x8000000000001de7 */
`
	_, err := Parse(short)
	require.ErrorIs(t, err, ErrTooShort)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrTooShort)
}

// TestIsInstruction exercises the line classifier directly.
func TestIsInstruction(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"plain instruction", "\t/*0010*/  MOV R1, R2;", true},
		{"predicated", "  /*0020*/ @P0 BRA 0x48;", true},
		{"no leading whitespace", "/*0010*/  MOV R1, R2;", false},
		{"no comment opener", "    MOV R1, R2;", false},
		{"encoding only", "\t/* 0x2800440400005de4 */", false},
		{"address only", "\t/*0048*/", false},
		{"empty", "", false},
		{"header", "\tcode for sm_20", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isInstruction(tc.line))
		})
	}
}

// TestStripComments verifies annotation removal leaves operand brackets and
// unterminated comments alone.
func TestStripComments(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/*0008*/ MOV R1, R2; /* 0x28 */", " MOV R1, R2; "},
		{"MOV R1, c[0x0][0x44];", "MOV R1, c[0x0][0x44];"},
		{"/**/X", "X"},
		{"/* no end", "/* no end"},
		{"A /*1*/ B /*2*/ C", "A  B  C"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, stripComments(tc.in), "input %q", tc.in)
	}
}

// TestParseOrderPreserved verifies program order survives filtering.
func TestParseOrderPreserved(t *testing.T) {
	var b strings.Builder
	names := []string{"S2R R0, SR_TID.X;", "MOV R1, R2;", "ST.E [R3], R0;",
		"MEMBAR.SYS;", "LD.E R4, [R3];", "EXIT;"}
	for i, n := range names {
		b.WriteString("\t/*00")
		b.WriteByte(byte('0' + i))
		b.WriteString("0*/  ")
		b.WriteString(n)
		b.WriteString("\n")
	}
	stream, err := Parse(b.String())
	require.NoError(t, err)
	require.Equal(t, names, stream)
}
