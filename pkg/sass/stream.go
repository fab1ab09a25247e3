// Package sass turns raw cuobjdump output into an ordered instruction stream.
//
// cuobjdump -sass prints instructions as
//
//	/*0048*/     @P0 ST.E [R4], R0;      /* 0x9400000000405c85 */
//
// with one instruction per line, flanked by address and encoding comments.
// Everything else in the dump (headers, section markers, blank lines) is
// noise and is dropped.
package sass

import (
	"fmt"
	"strings"
)

// MinInstructions is the smallest stream the checker will accept. The window
// matcher is meaningless on trivially short kernels.
const MinInstructions = 6

// ErrTooShort is returned when fewer than MinInstructions survive filtering.
var ErrTooShort = fmt.Errorf("fewer than %d instructions in disassembly", MinInstructions)

// Parse filters and cleans raw disassembly text into instruction strings in
// original program order.
func Parse(text string) ([]string, error) {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if !isInstruction(line) {
			continue
		}
		out = append(out, strings.TrimSpace(stripComments(line)))
	}
	if len(out) < MinInstructions {
		return nil, ErrTooShort
	}
	return out, nil
}

// isInstruction reports whether a dump line carries an instruction: leading
// whitespace, a comment opener, and at least one character afterwards that is
// not hex, a delimiter, or a space. Address-only and encoding-only lines are
// all-hex and fail the last test.
func isInstruction(line string) bool {
	i := 0
	for i < len(line) && isSpace(line[i]) {
		i++
	}
	if i == 0 || !strings.HasPrefix(line[i:], "/*") {
		return false
	}
	for j := i + 2; j < len(line); j++ {
		if !isHexOrDelim(line[j]) {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isHexOrDelim(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return true
	case c == 'x' || c == 'X' || c == '/' || c == '*' || c == ' ':
		return true
	}
	return false
}

// stripComments removes /*...*/ annotations whose body contains neither '*'
// nor '/', which covers the address and raw-encoding comments cuobjdump
// emits around each instruction.
func stripComments(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); {
		if strings.HasPrefix(line[i:], "/*") {
			j := i + 2
			for j < len(line) && line[j] != '*' && line[j] != '/' {
				j++
			}
			if j+1 < len(line) && line[j] == '*' && line[j+1] == '/' {
				i = j + 2
				continue
			}
		}
		b.WriteByte(line[i])
		i++
	}
	return b.String()
}
