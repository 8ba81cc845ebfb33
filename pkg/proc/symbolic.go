package proc

import "github.com/n-mahendra/sol/pkg/bytecode"

// This file implements spec.md §4.C, the symbolic executor: reverse-scan
// bytecode to infer the origin of a register's value at a given pc. None
// of it ever executes an instruction; it only reasons about which
// instructions provably wrote a register, following the dataflow rules
// spec.md lays out opcode by opcode.

// findSetReg implements spec.md's findsetreg: forward-scan code[0:lastpc)
// tracking the most recent instruction that provably wrote reg. Returns -1
// ("unknown origin") if none is found.
//
// The scan is forward, not backward, because a register write inside a
// conditional region (skipped by a forward JMP whose target lands at or
// before lastpc)
// cannot be proven to have executed; spec.md calls this out explicitly
// ("Matches occurring before jmptarget are discarded"). Tracking jmptarget
// as a running maximum while scanning forward is what lets a single linear
// pass answer that question without control-flow analysis.
func findSetReg(p *bytecode.Proto, lastpc int, reg int32) int {
	if lastpc < 0 {
		return -1
	}
	if lastpc < len(p.Code) {
		if bytecode.TestMMMode(p.Code[lastpc].Op) {
			// That instruction has not yet run: spec.md §4.C.
			lastpc--
		}
	}

	setpc := -1
	jmptarget := 0

	for pc := 0; pc < lastpc; pc++ {
		instr := p.Code[pc]
		switch instr.Op {
		case bytecode.OpLoadNil:
			a, b := instr.A, instr.B
			if reg >= a && reg <= a+b {
				if pc >= jmptarget {
					setpc = pc
				}
			}
		case bytecode.OpTForCall:
			if reg >= instr.A+2 {
				if pc >= jmptarget {
					setpc = pc
				}
			}
		case bytecode.OpCall, bytecode.OpTailCall:
			if reg >= instr.A {
				if pc >= jmptarget {
					setpc = pc
				}
			}
		case bytecode.OpJmp:
			dest := bytecode.JumpTarget(pc, instr)
			if dest > pc && dest <= lastpc {
				if dest > jmptarget {
					jmptarget = dest
				}
			}
		default:
			if bytecode.TestAMode(instr.Op) && instr.A == reg {
				if pc >= jmptarget {
					setpc = pc
				}
			}
		}
	}
	return setpc
}

// basicObjName implements spec.md's basicgetobjname. It first checks the
// local-variable table, then falls back to findSetReg and dispatches on
// the writing opcode. setpc is the pc findSetReg returned (or -1), handed
// back so getObjName can keep dispatching on the same instruction without
// re-scanning.
func basicObjName(p *bytecode.Proto, pc int, reg int32) (kind, name string, setpc int) {
	if lname, ok := localNameAt(p, pc, int(reg)+1); ok {
		return "local", lname, -1
	}

	setpc = findSetReg(p, pc, reg)
	if setpc == -1 {
		return "", "", -1
	}
	instr := p.Code[setpc]
	switch instr.Op {
	case bytecode.OpMove:
		b := instr.B
		if b < instr.A {
			// The value at b still has the same origin: spec.md's
			// explicit b < a guard, preserved verbatim per §9's open
			// question. The recursion itself runs at setpc, which lies
			// before pc, so it terminates with or without the guard.
			k, n, sp := basicObjName(p, setpc, b)
			return k, n, sp
		}
		return "", "", setpc
	case bytecode.OpGetUpval:
		return "upvalue", upvalName(p, instr.B), setpc
	case bytecode.OpLoadK:
		return "constant", constantName(p, instr.Bx), setpc
	case bytecode.OpLoadKX:
		// Unlike upstream Lua's two-word encoding (LOADKX followed by a
		// separate EXTRAARG instruction carrying the real constant index),
		// this Instruction's Ax field holds it directly — spec.md §9's
		// "named operand fields" over parallel-array decoding extends to
		// not needing a second fetched instruction here either.
		return "constant", constantName(p, instr.Ax), setpc
	default:
		return "", "", setpc
	}
}

// upvalName returns the declared name of upvalue idx, or "?" if the
// compiler did not retain one.
func upvalName(p *bytecode.Proto, idx int32) string {
	if idx < 0 || int(idx) >= len(p.Upvalues) {
		return "?"
	}
	if p.Upvalues[idx].Name == "" {
		return "?"
	}
	return p.Upvalues[idx].Name
}

// isEnv reports whether GETTABUP's B operand — an upvalue index, not a
// register — names the _ENV upvalue, the global-vs-field test spec.md
// §4.C describes.
func isEnv(p *bytecode.Proto, _ int, upvalIdx int32) bool {
	return upvalName(p, upvalIdx) == "_ENV"
}

// regIsEnv reports whether GETTABLE/GETFIELD's B operand — a register, not
// an upvalue index — resolves to a local variable literally named _ENV,
// spec.md §4.C's other half of the global-vs-field test ("the indexed
// table is the _ENV upvalue or a local literally named _ENV"). Reuses
// basicObjName/upvalName rather than a separate lookup, per spec.md.
func regIsEnv(p *bytecode.Proto, pc int, reg int32) bool {
	kind, name, _ := basicObjName(p, pc, reg)
	return kind == "local" && name == "_ENV"
}

// ObjName implements spec.md's getobjname: basicObjName, extended with
// table-access dispatch (GETTABUP/GETTABLE/GETI/GETFIELD/SELF) when the
// plain local/upvalue/constant lookup came up empty.
func ObjName(p *bytecode.Proto, pc int, reg int32) (kind, name string) {
	kind, name, setpc := basicObjName(p, pc, reg)
	if kind != "" {
		return kind, name
	}
	if setpc == -1 {
		return "", ""
	}
	instr := p.Code[setpc]
	switch instr.Op {
	case bytecode.OpSelf:
		return "method", rkName(p, setpc, instr.C, instr.K)
	case bytecode.OpGetI:
		return "field", "integer index"
	case bytecode.OpGetTabUp:
		if isEnv(p, setpc, instr.B) {
			return "global", rkName(p, setpc, instr.C, instr.K)
		}
		return "field", rkName(p, setpc, instr.C, instr.K)
	case bytecode.OpGetTable, bytecode.OpGetField:
		if regIsEnv(p, setpc, instr.B) {
			return "global", rkName(p, setpc, instr.C, instr.K)
		}
		return "field", rkName(p, setpc, instr.C, instr.K)
	default:
		return "", ""
	}
}

// rkName resolves an RK-encoded operand (register-or-constant) to a
// printable key name: a constant's string value if k is set, else the
// symbolic name of the register (recursing through ObjName), else "?".
func rkName(p *bytecode.Proto, pc int, rk int32, isConst bool) string {
	if isConst {
		return constantName(p, rk)
	}
	if _, name := ObjName(p, pc, rk); name != "" {
		return name
	}
	return "?"
}

// FuncNameFromCode implements spec.md's funcnamefromcode: classify the
// instruction at pc to name the function/metamethod it invokes.
func FuncNameFromCode(p *bytecode.Proto, pc int) (kind, name string) {
	if pc < 0 || pc >= len(p.Code) {
		return "", ""
	}
	instr := p.Code[pc]
	switch instr.Op {
	case bytecode.OpCall, bytecode.OpTailCall:
		return ObjName(p, pc, instr.A)
	case bytecode.OpTForCall:
		return "for iterator", "for iterator"
	case bytecode.OpSelf, bytecode.OpGetTabUp, bytecode.OpGetTable, bytecode.OpGetI, bytecode.OpGetField:
		return "metamethod", bytecode.MMIndex.Name()
	case bytecode.OpSetTabUp, bytecode.OpSetTable, bytecode.OpSetI, bytecode.OpSetField:
		return "metamethod", bytecode.MMNewIndex.Name()
	case bytecode.OpMMBin, bytecode.OpMMBinI, bytecode.OpMMBinK:
		if mm, ok := bytecode.MetamethodByTag(instr.C); ok {
			return "metamethod", mm.Name()
		}
		return "metamethod", "?"
	case bytecode.OpClose, bytecode.OpReturn, bytecode.OpReturn0, bytecode.OpReturn1:
		return "metamethod", bytecode.MMClose.Name()
	default:
		if mm, ok := bytecode.MetamethodForOp(instr.Op); ok {
			return "metamethod", mm.Name()
		}
		return "", ""
	}
}

// FuncNameFromCall implements spec.md's funcnamefromcall: name the
// function invoked to create frame, by inspecting the caller.
func FuncNameFromCall(frame *Frame) (kind, name string) {
	if frame == nil {
		return "", ""
	}
	if frame.IsHooked() {
		return "hook", "?"
	}
	if frame.IsFinalizer() {
		return "metamethod", bytecode.MMGC.Name()
	}
	caller := frame.previous
	if caller == nil {
		return "", ""
	}
	if caller.IsTailCall() {
		// Tail calls opacify the caller: spec.md §4.C.
		return "", ""
	}
	if sf, ok := caller.asScript(); ok {
		return FuncNameFromCode(sf.Proto, sf.CurrentPC())
	}
	return "", ""
}
