package main

import (
	"github.com/n-mahendra/sol/pkg/bytecode"
	"github.com/n-mahendra/sol/pkg/proc"
)

// demoProto builds a small synthetic prototype to drive trace/repl/dap
// against when no compiled chunk is available. Lexing, parsing, and chunk
// serialization live outside this module's scope, so cmd/vmdbg has no way
// to turn a source file into a bytecode.Proto on its own — a real
// deployment links this module into a host that already owns a compiler
// and hands compiled Protos to Interp. This fixture exists so the CLI
// subcommands have something concrete to exercise end to end.
func demoProto() *bytecode.Proto {
	return &bytecode.Proto{
		Source:      "@demo.lua",
		LineDefined: 1,
		NumParams:   0,
		MaxStack:    4,
		Constants: []bytecode.Constant{
			{Kind: bytecode.ConstString, Str: "print"},
			{Kind: bytecode.ConstString, Str: "hello"},
		},
		Upvalues: []bytecode.Upvalue{{Name: "_ENV"}},
		Locals: []bytecode.LocalVar{
			{Name: "greeting", StartPC: 2, EndPC: 4},
		},
		LineInfo: &bytecode.LineInfo{
			Rel: []int8{0, 0, 1, 1},
		},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpGetTabUp, A: 0, B: 0, C: 0, K: true}, // line 1: print
			{Op: bytecode.OpLoadK, A: 1, Bx: 1},                  // line 1: "hello"
			{Op: bytecode.OpCall, A: 0, B: 2, C: 1},              // line 2: print(greeting)
			{Op: bytecode.OpReturn, A: 0, B: 1},                  // line 3: return
		},
	}
}

// runDemo drives demoProto's instructions one at a time through TraceCall
// and TraceExec, standing in for the dispatch loop a real embedder would
// own. It exists purely so trace/repl/dap have live hook events and a real
// Frame to inspect; it performs no actual arithmetic or table access.
func runDemo(in *proc.Interp) {
	proto := demoProto()
	envCell := proc.Value("_G")
	frame := &proc.Frame{
		Kind:     proc.ScriptFrame,
		Proto:    proto,
		FuncSlot: 0,
		TopSlot:  len(proto.Code) + 2,
		Closure:  &proc.Closure{Proto: proto, Upvals: []*proc.Value{&envCell}},
	}
	in.Stack = append(in.Stack, make([]proc.Value, frame.TopSlot)...)

	in.PushFrame(frame)
	in.TraceCall(frame, false)
	for pc := range proto.Code {
		if err := in.TraceExec(frame, pc); err != nil {
			break
		}
	}
	in.CallHook(frame, proc.EventReturn, -1)
	// The frame stays on the chain so repl/dap have it to inspect.
}
