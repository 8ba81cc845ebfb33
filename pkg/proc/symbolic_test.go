package proc

import (
	"testing"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

// buildGlobalCallProto is spec.md §8 scenario 2: a GETTABUP off _ENV
// loading a global into r0, followed by a CALL of r0.
func buildGlobalCallProto() *bytecode.Proto {
	return &bytecode.Proto{
		LineDefined: 1,
		Upvalues:    []bytecode.Upvalue{{Name: "_ENV"}},
		Constants:   []bytecode.Constant{{Kind: bytecode.ConstString, Str: "print"}},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpGetTabUp, A: 0, B: 0, C: 0, K: true},
			{Op: bytecode.OpCall, A: 0, B: 1, C: 1},
		},
	}
}

func TestFuncNameFromCodeGlobal(t *testing.T) {
	p := buildGlobalCallProto()
	kind, name := FuncNameFromCode(p, 1)
	if kind != "global" || name != "print" {
		t.Errorf("FuncNameFromCode(call) = (%q, %q), want (\"global\", \"print\")", kind, name)
	}
}

// buildMethodCallProto is spec.md §8 scenario 3: SELF pulling a method off
// a receiver in r0, followed by a CALL of the resulting closure in r1.
func buildMethodCallProto() *bytecode.Proto {
	return &bytecode.Proto{
		LineDefined: 1,
		Constants:   []bytecode.Constant{{Kind: bytecode.ConstString, Str: "greet"}},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpSelf, A: 1, B: 0, C: 0, K: true},
			{Op: bytecode.OpCall, A: 1, B: 1, C: 1},
		},
	}
}

func TestFuncNameFromCodeMethod(t *testing.T) {
	p := buildMethodCallProto()
	kind, name := FuncNameFromCode(p, 1)
	if kind != "method" || name != "greet" {
		t.Errorf("FuncNameFromCode(call) = (%q, %q), want (\"method\", \"greet\")", kind, name)
	}
}

func TestFuncNameFromCodeForIterator(t *testing.T) {
	p := &bytecode.Proto{
		Code: []bytecode.Instruction{{Op: bytecode.OpTForCall, A: 0}},
	}
	kind, name := FuncNameFromCode(p, 0)
	if kind != "for iterator" || name != "for iterator" {
		t.Errorf("FuncNameFromCode(TFORCALL) = (%q, %q)", kind, name)
	}
}

func TestFuncNameFromCodeMetamethodArith(t *testing.T) {
	p := &bytecode.Proto{
		Code: []bytecode.Instruction{{Op: bytecode.OpAdd, A: 0, B: 1, C: 2}},
	}
	kind, name := FuncNameFromCode(p, 0)
	if kind != "metamethod" || name != "add" {
		t.Errorf("FuncNameFromCode(ADD) = (%q, %q), want (\"metamethod\", \"add\")", kind, name)
	}
}

func TestObjNameLocal(t *testing.T) {
	p := &bytecode.Proto{
		Locals: []bytecode.LocalVar{{Name: "x", StartPC: 0, EndPC: 5}},
		Code:   make([]bytecode.Instruction, 5),
	}
	kind, name := ObjName(p, 2, 0)
	if kind != "local" || name != "x" {
		t.Errorf("ObjName = (%q, %q), want (\"local\", \"x\")", kind, name)
	}
}

func TestObjNameConstant(t *testing.T) {
	p := &bytecode.Proto{
		Constants: []bytecode.Constant{{Kind: bytecode.ConstString, Str: "hello"}},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpLoadK, A: 0, Bx: 0},
			{Op: bytecode.OpCall, A: 0},
		},
	}
	kind, name := ObjName(p, 1, 0)
	if kind != "constant" || name != "hello" {
		t.Errorf("ObjName = (%q, %q), want (\"constant\", \"hello\")", kind, name)
	}
}

func TestObjNameMoveChain(t *testing.T) {
	// r1 := r0 (MOVE with b < a), then r1 is read: should resolve through
	// to r0's own origin, per the b < a guard spec.md preserves verbatim.
	p := &bytecode.Proto{
		Constants: []bytecode.Constant{{Kind: bytecode.ConstString, Str: "k"}},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpLoadK, A: 0, Bx: 0},
			{Op: bytecode.OpMove, A: 1, B: 0},
			{Op: bytecode.OpCall, A: 1},
		},
	}
	kind, name := ObjName(p, 2, 1)
	if kind != "constant" || name != "k" {
		t.Errorf("ObjName through MOVE chain = (%q, %q), want (\"constant\", \"k\")", kind, name)
	}
}

func TestFuncNameFromCodeGlobalViaLocalEnv(t *testing.T) {
	// r0 is a local literally named "_ENV" (not the _ENV upvalue); GETFIELD
	// off it must still classify as "global", per spec.md §4.C's "the
	// indexed table is the _ENV upvalue OR a local literally named _ENV".
	p := &bytecode.Proto{
		LineDefined: 1,
		Locals:      []bytecode.LocalVar{{Name: "_ENV", StartPC: 0, EndPC: 3}},
		Constants:   []bytecode.Constant{{Kind: bytecode.ConstString, Str: "print"}},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpGetField, A: 1, B: 0, C: 0, K: true},
			{Op: bytecode.OpCall, A: 1, B: 1, C: 1},
		},
	}
	kind, name := FuncNameFromCode(p, 1)
	if kind != "global" || name != "print" {
		t.Errorf("FuncNameFromCode(call via local _ENV) = (%q, %q), want (\"global\", \"print\")", kind, name)
	}
}

func TestObjNameGetTableNonEnvIsField(t *testing.T) {
	// r0 is a local not named _ENV; GETTABLE off it must classify as
	// "field", not "global".
	p := &bytecode.Proto{
		Locals:    []bytecode.LocalVar{{Name: "t", StartPC: 0, EndPC: 3}},
		Constants: []bytecode.Constant{{Kind: bytecode.ConstString, Str: "x"}},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpGetTable, A: 1, B: 0, C: 0, K: true},
			{Op: bytecode.OpCall, A: 1},
		},
	}
	kind, name := ObjName(p, 1, 1)
	if kind != "field" || name != "x" {
		t.Errorf("ObjName(GETTABLE off non-_ENV local) = (%q, %q), want (\"field\", \"x\")", kind, name)
	}
}

func TestObjNameUnknownOrigin(t *testing.T) {
	p := &bytecode.Proto{
		Code: []bytecode.Instruction{
			{Op: bytecode.OpJmp, SJ: 0},
			{Op: bytecode.OpJmp, SJ: 0},
			{Op: bytecode.OpCall, A: 0},
		},
	}
	kind, name := ObjName(p, 2, 0)
	if kind != "" || name != "" {
		t.Errorf("ObjName with no writer = (%q, %q), want (\"\", \"\")", kind, name)
	}
}
