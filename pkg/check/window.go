package check

import (
	"strings"

	"github.com/oisee/optcheck/pkg/isa"
	"github.com/oisee/optcheck/pkg/spec"
)

// Window bounds around a chain's first specification item. Markers are
// emitted before the accesses they describe, so the window is top-heavy.
const (
	windowAbove = 40
	windowBelow = 8
)

// MatchChain searches the window around a chain's first item for real
// instructions matching the chain's opcode/register sequence in order. On
// success it adds every fence instruction strictly between the first and
// last matched instruction to observed and returns true.
//
// Run at most once per chain: fence counting is additive, and a rerun would
// double-count.
func MatchChain(ch spec.Chain, stream []string, m isa.Mapping, observed Counters) bool {
	cur := ch[0]
	info := m[cur.Type]

	top := cur.Pos - windowAbove
	if top < 0 {
		top = 0
	}
	bot := cur.Pos + windowBelow
	if bot > len(stream) {
		bot = len(stream)
	}

	next := 1
	first := 0

	for i := top; i < bot; i++ {
		ins := stripPredicate(stream[i])
		oc := matchOpcode(ins, info.Aliases)
		if oc == "" {
			continue
		}
		operands := splitOperands(ins, oc)
		if info.OperandIndex >= len(operands) {
			continue
		}
		reg := operands[info.OperandIndex]
		if info.MemoryAccess {
			reg = memReg(reg)
			if reg == "" {
				continue
			}
		}
		if reg != cur.Reg {
			continue
		}

		if next == 1 {
			first = i
		}
		if next >= len(ch) {
			if first+1 < i {
				countFences(stream[first+1:i], observed)
			}
			return true
		}
		cur = ch[next]
		info = m[cur.Type]
		next++
	}
	return false
}

// countFences bumps the observed counter for every fence category whose
// substring appears in an instruction. A single instruction counts once per
// category.
func countFences(window []string, observed Counters) {
	for _, ins := range window {
		low := strings.ToLower(ins)
		for _, f := range Fences {
			if strings.Contains(low, f) {
				observed[f]++
			}
		}
	}
}

// stripPredicate removes a single leading @predicate token (conditional
// execution guard), e.g. "@!P0 ST.E [R2], R0" -> "ST.E [R2], R0".
func stripPredicate(ins string) string {
	if len(ins) == 0 || ins[0] != '@' {
		return ins
	}
	i := 1
	for i < len(ins) && isPredicateChar(ins[i]) {
		i++
	}
	if i == 1 || i == len(ins) || !isSpace(ins[i]) {
		return ins
	}
	for i < len(ins) && isSpace(ins[i]) {
		i++
	}
	return ins[i:]
}

func isPredicateChar(c byte) bool {
	switch {
	case c == '!':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// matchOpcode returns the alias the instruction starts with, or "". The
// alias must be followed by a space so "ST.E" does not match "ST.E.CG".
func matchOpcode(ins string, aliases []string) string {
	for _, oc := range aliases {
		if strings.HasPrefix(ins, oc+" ") {
			return oc
		}
	}
	return ""
}

// splitOperands strips the matched opcode and returns the trimmed
// comma-separated operand list.
func splitOperands(ins, oc string) []string {
	s := strings.TrimSpace(ins[len(oc):])
	s = strings.TrimRight(s, ";")
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// memReg extracts the register from a bracketed memory operand like "[R2]".
// Returns "" if the operand is not a simple register reference (offsets,
// constants, compound addresses all disqualify).
func memReg(op string) string {
	s := strings.TrimSpace(op)
	s = strings.TrimLeft(s, "[")
	s = strings.TrimRight(s, "]")
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != 'r' && s[0] != 'R') {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ""
		}
	}
	return s
}
