package proc

import (
	"strings"
	"testing"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

func TestDisassembleListsOneLinePerInstruction(t *testing.T) {
	in := newTestInterp()
	p := &bytecode.Proto{
		Source: "@src",
		Code: []bytecode.Instruction{
			{Op: bytecode.OpLoadK, A: 0, Bx: 0},
			{Op: bytecode.OpJmp, SJ: 0},
		},
		Constants: []bytecode.Constant{{Kind: bytecode.ConstString, Str: "x"}},
	}
	lines := in.Disassemble(p)
	if len(lines) != 2 {
		t.Fatalf("Disassemble returned %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "LOADK") || !strings.Contains(lines[0], "x") {
		t.Errorf("lines[0] = %q, want it to mention LOADK and the constant", lines[0])
	}
	if !strings.Contains(lines[1], "JMP") {
		t.Errorf("lines[1] = %q, want it to mention JMP", lines[1])
	}
}

func TestDisassembleNilProto(t *testing.T) {
	in := newTestInterp()
	if got := in.Disassemble(nil); got != nil {
		t.Errorf("Disassemble(nil) = %v, want nil", got)
	}
}
