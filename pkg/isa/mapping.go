// Package isa holds the static SASS instruction mappings used to relate a
// decoded specification item's type index to the real memory instruction the
// compiler should have emitted for it.
package isa

import "fmt"

// Generation selects which hardware generation's opcode mapping is active.
// There is no auto-detection: the caller picks one explicitly.
type Generation int

const (
	PreMaxwell Generation = iota
	Maxwell
)

// ParseGeneration converts a -mapping flag value into a Generation.
func ParseGeneration(s string) (Generation, error) {
	switch s {
	case "pre-maxwell":
		return PreMaxwell, nil
	case "maxwell":
		return Maxwell, nil
	}
	return 0, fmt.Errorf("invalid mapping %q (want \"pre-maxwell\" or \"maxwell\")", s)
}

func (g Generation) String() string {
	switch g {
	case PreMaxwell:
		return "pre-maxwell"
	case Maxwell:
		return "maxwell"
	}
	return fmt.Sprintf("Generation(%d)", int(g))
}

// OpInfo describes the SASS instruction family a type index maps to.
type OpInfo struct {
	Aliases      []string // Accepted opcode spellings, checked in order
	OperandIndex int      // Position of the link register in the operand list
	MemoryAccess bool     // Link register is a bracketed memory operand
}

// Mapping is indexed by a specification item's type index.
type Mapping []OpInfo

// Valid reports whether typ is a legal index into the mapping.
func (m Mapping) Valid(typ int) bool {
	return typ >= 0 && typ < len(m)
}

// preMaxwell: one entry per PTX access kind encoded in the spec type index.
var preMaxwell = Mapping{
	{[]string{"ST.E"}, 0, true},                   // 00, st.ca
	{[]string{"LD.E"}, 0, false},                  // 01, ld.ca
	{[]string{"ST.E.CG", "ST.E.CG.S"}, 0, true},   // 02, st.cg
	{[]string{"LD.E.CG", "LD.E.CG.S"}, 0, false},  // 03, ld.cg
	{[]string{"STS"}, 0, true},                    // 04, st.shared
	{[]string{"LDS"}, 0, false},                   // 05, ld.shared
	{[]string{"ATOM.E.CAS"}, 0, false},            // 06, atom.cas
	{[]string{"ATOM.E.EXCH", "ATOM.E.INC"}, 0, false}, // 07, atom.exch
	{[]string{"ST.E.WT"}, 0, true},                // 08, st.cv
	{[]string{"LD.E.CV"}, 0, false},               // 09, ld.cv
}

// maxwell folds the cg/cv variants back onto the plain forms.
var maxwell = Mapping{
	{[]string{"ST.E"}, 0, true},                   // 00, st.ca
	{[]string{"LD.E"}, 0, false},                  // 01, ld.ca
	{[]string{"ST.E", "ST.E.S"}, 0, true},         // 02, st.cg
	{[]string{"LD.E", "LD.E.S"}, 0, false},        // 03, ld.cg
	{[]string{"STS"}, 0, true},                    // 04, st.shared
	{[]string{"LDS"}, 0, false},                   // 05, ld.shared
	{[]string{"ATOM.E.CAS"}, 0, false},            // 06, atom.cas
	{[]string{"ATOM.E.EXCH", "ATOM.E.INC"}, 0, false}, // 07, atom.exch
	{[]string{"ST.E"}, 0, true},                   // 08, st.cv
	{[]string{"LD.E"}, 0, false},                  // 09, ld.cv
}

// ForGeneration returns the instruction mapping for a hardware generation.
// The returned slice is shared and must not be modified.
func ForGeneration(g Generation) Mapping {
	if g == Maxwell {
		return maxwell
	}
	return preMaxwell
}
