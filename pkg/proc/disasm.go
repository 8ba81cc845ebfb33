package proc

import (
	"fmt"
	"strings"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

// Disassemble renders proto's code as a human-readable listing, one line
// per instruction: pc, source line, mnemonic, and operands. It exists for
// cmd/vmdbg's "trace"/REPL front ends, not for the execution path itself —
// nothing in components A-G depends on it.
func (in *Interp) Disassemble(proto *bytecode.Proto) []string {
	if proto == nil {
		return nil
	}
	lines := make([]string, 0, len(proto.Code))
	for pc, instr := range proto.Code {
		lines = append(lines, disasmLine(proto, pc, instr))
	}
	return lines
}

func disasmLine(p *bytecode.Proto, pc int, instr bytecode.Instruction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d\t[%d]\t%-10s", pc, p.GetFuncLine(pc), instr.Op.String())
	fmt.Fprintf(&b, "%s", operandString(p, pc, instr))
	return b.String()
}

func operandString(p *bytecode.Proto, pc int, instr bytecode.Instruction) string {
	switch instr.Op {
	case bytecode.OpJmp:
		return fmt.Sprintf("sJ=%d", instr.SJ)
	case bytecode.OpLoadK:
		return fmt.Sprintf("A=%d Bx=%d ; %s", instr.A, instr.Bx, constantName(p, instr.Bx))
	case bytecode.OpLoadKX:
		return fmt.Sprintf("A=%d Ax=%d ; %s", instr.A, instr.Ax, constantName(p, instr.Ax))
	case bytecode.OpGetTabUp:
		return fmt.Sprintf("A=%d B=%d C=%d ; %s(%s)", instr.A, instr.B, instr.C, upvalName(p, instr.B), rkName(p, pc, instr.C, instr.K))
	default:
		return fmt.Sprintf("A=%d B=%d C=%d k=%v", instr.A, instr.B, instr.C, instr.K)
	}
}
