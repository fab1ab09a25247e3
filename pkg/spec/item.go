// Package spec recovers the hidden ordering specification a litmus test
// embeds in its compiled SASS. Test generators smuggle one marker per memory
// access into the immediate of an otherwise-dead arithmetic instruction; this
// package decodes those markers and reassembles them into per-thread chains.
package spec

import (
	"strconv"
	"strings"

	"github.com/oisee/optcheck/pkg/isa"
)

// Tag is the magic value in the upper 16 bits of a qualifying immediate.
const Tag = 0x7f3a

// Carriers are the arithmetic opcodes used to smuggle specification items
// (the add-immediate and xor-immediate forms emitted for address arithmetic).
var Carriers = []string{"IADD32I", "LOP32I.XOR"}

// Item is one decoded specification marker.
type Item struct {
	Pos   int    // index of the carrier instruction in the stream
	Type  int    // index into the isa.Mapping
	Order int    // position within the item's chain
	Reg   string // link register naming the real access
}

// Scan decodes every specification item in the instruction stream, in
// program order. m is the active instruction mapping and bounds the legal
// type indices. Carrier instructions whose immediate does not carry the Tag
// are skipped; a carrier that does not split into the expected register,
// register, immediate shape is a *DecodeError.
func Scan(stream []string, m isa.Mapping) ([]Item, error) {
	var items []Item
	for pos, ins := range stream {
		if !isCarrier(ins) {
			continue
		}
		num, reg, err := splitCarrier(ins)
		if err != nil {
			return nil, err
		}
		if (num>>16)&0xffff != Tag {
			continue
		}
		typ := int((num & 0xff00) >> 8)
		order := int((num & 0xf0) >> 4)
		if !m.Valid(typ) {
			return nil, &DecodeError{Ins: ins, Reason: "type index " + strconv.Itoa(typ) + " out of range"}
		}
		items = append(items, Item{Pos: pos, Type: typ, Order: order, Reg: reg})
	}
	return items, nil
}

func isCarrier(ins string) bool {
	for _, c := range Carriers {
		if strings.HasPrefix(ins, c) {
			return true
		}
	}
	return false
}

// splitCarrier strips the carrier opcode and parses the three-field operand
// list, returning the 32-bit immediate and the destination register. The
// immediate may be negative (stack adjustments like "IADD32I R1, R1, -0x8;"
// appear in every kernel) and is reduced to its low 32 bits; the tag check
// then rejects non-carriers.
func splitCarrier(ins string) (uint32, string, error) {
	s := strings.TrimSpace(ins)
	s = strings.TrimRight(s, ";")
	for _, c := range Carriers {
		if strings.HasPrefix(s, c) {
			s = s[len(c):]
			break
		}
	}

	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return 0, "", &DecodeError{Ins: ins, Reason: "expected 3 operands, got " + strconv.Itoa(len(fields))}
	}
	reg := strings.TrimSpace(fields[1])
	lit := strings.TrimSpace(fields[2])

	num, err := parseImm32(lit)
	if err != nil {
		return 0, "", &DecodeError{Ins: ins, Reason: "bad immediate " + strconv.Quote(lit)}
	}
	return num, reg, nil
}

// parseImm32 parses a signed hex literal and truncates it to 32 bits
// (two's complement for negatives), the same reduction the field masks
// apply.
func parseImm32(lit string) (uint32, error) {
	s := lit
	neg := strings.HasPrefix(s, "-")
	if neg || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	mag, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	num := uint32(mag)
	if neg {
		num = -num
	}
	return num, nil
}
