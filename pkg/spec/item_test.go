package spec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/optcheck/pkg/isa"
)

// carrier builds a tagged spec-carrier instruction the way the litmus
// generator emits them.
func carrier(typ, order int, reg string) string {
	imm := uint32(Tag)<<16 | uint32(typ)<<8 | uint32(order)<<4
	return fmt.Sprintf("IADD32I R9, %s, 0x%08x;", reg, imm)
}

// TestScanDecodesCarrier verifies field extraction from both carrier forms.
func TestScanDecodesCarrier(t *testing.T) {
	stream := []string{
		"MOV R1, R2;",
		carrier(3, 1, "R4"),
		fmt.Sprintf("LOP32I.XOR R9, R7, 0x%08x;", uint32(Tag)<<16|uint32(5)<<8|uint32(2)<<4),
		"EXIT;",
	}
	items, err := Scan(stream, isa.ForGeneration(isa.PreMaxwell))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, Item{Pos: 1, Type: 3, Order: 1, Reg: "R4"}, items[0])
	assert.Equal(t, Item{Pos: 2, Type: 5, Order: 2, Reg: "R7"}, items[1])
}

// TestScanSkipsUntagged verifies ordinary address arithmetic is not a spec
// item and is silently skipped.
func TestScanSkipsUntagged(t *testing.T) {
	stream := []string{
		"IADD32I R4, R2, 0x4;",
		"IADD32I R6, R2, 0xdead0010;",
		"LOP32I.XOR R3, R3, 0xffffffff;",
	}
	items, err := Scan(stream, isa.ForGeneration(isa.PreMaxwell))
	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestScanNegativeImmediate verifies a negative immediate, as every kernel's
// stack adjustment carries, parses and is skipped by the tag check rather
// than aborting the run. A negative value whose two's-complement upper half
// is the tag still decodes as a carrier.
func TestScanNegativeImmediate(t *testing.T) {
	items, err := Scan([]string{"IADD32I R1, R1, -0x8;"}, isa.ForGeneration(isa.PreMaxwell))
	require.NoError(t, err)
	assert.Empty(t, items)

	// -0x80c60000 reduces to 0x7f3a0000 in 32 bits.
	items, err = Scan([]string{"IADD32I R9, R2, -0x80c60000;"}, isa.ForGeneration(isa.PreMaxwell))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, Item{Pos: 0, Type: 0, Order: 0, Reg: "R2"}, items[0])
}

// TestScanWideImmediate verifies an immediate wider than 32 bits is reduced
// to its low 32 bits before the tag check, so bit 32 and above never decide
// whether a line is a carrier.
func TestScanWideImmediate(t *testing.T) {
	items, err := Scan([]string{"IADD32I R9, R2, 0x17f3a0000;"}, isa.ForGeneration(isa.PreMaxwell))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, Item{Pos: 0, Type: 0, Order: 0, Reg: "R2"}, items[0])

	items, err = Scan([]string{"IADD32I R9, R2, 0x1dead0000;"}, isa.ForGeneration(isa.PreMaxwell))
	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestScanDecodeErrors verifies malformed carriers abort the run.
func TestScanDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		ins  string
	}{
		{"two operands", "IADD32I R9, 0x7f3a0000;"},
		{"four operands", "IADD32I R9, R2, R3, 0x7f3a0000;"},
		{"bad immediate", "IADD32I R9, R2, banana;"},
		{"sign only", "IADD32I R9, R2, -;"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Scan([]string{tc.ins}, isa.ForGeneration(isa.PreMaxwell))
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.ins, de.Ins)
		})
	}
}

// TestScanTypeRange verifies a tagged item with a type index past the end of
// the mapping is a decode error, never a silent truncation.
func TestScanTypeRange(t *testing.T) {
	stream := []string{carrier(10, 0, "R2")}
	_, err := Scan(stream, isa.ForGeneration(isa.PreMaxwell))
	var de *DecodeError
	require.ErrorAs(t, err, &de)

	wider := make(isa.Mapping, 11)
	copy(wider, isa.ForGeneration(isa.PreMaxwell))
	_, err = Scan(stream, wider)
	require.NoError(t, err)
}

// TestScanOrderNibble verifies only bits 4-7 form the order index.
func TestScanOrderNibble(t *testing.T) {
	ins := fmt.Sprintf("IADD32I R9, R2, 0x%08x;", uint32(Tag)<<16|uint32(1)<<8|uint32(0xf)<<4|0x7)
	items, err := Scan([]string{ins}, isa.ForGeneration(isa.PreMaxwell))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0xf, items[0].Order)
	assert.Equal(t, 1, items[0].Type)
}
