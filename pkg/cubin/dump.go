// Package cubin obtains SASS disassembly text from a compiled CUDA binary.
package cubin

import (
	"fmt"
	"os"
	"os/exec"
)

// CuobjdumpPath is the disassembler binary to invoke. Override before calling
// Disassemble if cuobjdump is not on PATH.
var CuobjdumpPath = "cuobjdump"

// Disassemble runs the disassembler on a CUDA binary and returns the SASS
// text. Stderr is folded into the output, matching what a pre-captured dump
// file would contain.
func Disassemble(binary string) (string, error) {
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("cubin: %w", err)
	}
	out, err := exec.Command(CuobjdumpPath, "-sass", binary).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("cubin: %s -sass %s: %w", CuobjdumpPath, binary, err)
	}
	return string(out), nil
}
