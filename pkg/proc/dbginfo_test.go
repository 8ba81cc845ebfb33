package proc

import (
	"testing"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

func TestAssembleInfoSourceScript(t *testing.T) {
	p := &bytecode.Proto{Source: "@a.sol", LineDefined: 3, LastLineDefined: 9}
	frame := &Frame{Kind: ScriptFrame, Proto: p}
	info, ok := AssembleInfo(frame, nil, "S")
	if !ok {
		t.Fatal("AssembleInfo('S') reported failure")
	}
	if info.What != "Sol" || info.ShortSrc != "a.sol" || info.LineDefined != 3 || info.LastLineDefined != 9 {
		t.Errorf("info = %+v", info)
	}
}

func TestAssembleInfoSourceMain(t *testing.T) {
	p := &bytecode.Proto{Source: "@a.sol", LineDefined: 0}
	info, _ := AssembleInfo(&Frame{Kind: ScriptFrame, Proto: p}, nil, "S")
	if info.What != "main" {
		t.Errorf("What = %q, want main for linedefined==0", info.What)
	}
}

func TestAssembleInfoSourceNative(t *testing.T) {
	info, ok := AssembleInfo(&Frame{Kind: NativeFrame}, nil, "S")
	if !ok || info.What != "C" || info.Source != "=[C]" || info.LineDefined != -1 {
		t.Errorf("native info = %+v, ok=%v", info, ok)
	}
}

func TestAssembleInfoUnknownTagStillProcessesRest(t *testing.T) {
	p := &bytecode.Proto{Source: "@a.sol", LineDefined: 1}
	info, ok := AssembleInfo(&Frame{Kind: ScriptFrame, Proto: p}, nil, "SzS")
	if ok {
		t.Error("AssembleInfo with an unknown tag reported success")
	}
	if info.ShortSrc != "a.sol" {
		t.Errorf("unknown tag suppressed processing of surrounding recognized tags: %+v", info)
	}
}

func TestAssembleInfoUpvalueCountsOnFunctionOnly(t *testing.T) {
	p := &bytecode.Proto{
		Upvalues:  []bytecode.Upvalue{{Name: "a"}, {Name: "b"}},
		NumParams: 2,
	}
	info, ok := AssembleInfo(nil, p, "u")
	if !ok || info.NUps != 2 || info.NParams != 2 || info.IsVararg {
		t.Errorf("info = %+v, ok=%v", info, ok)
	}
}

func TestAssembleInfoValidLines(t *testing.T) {
	p := &bytecode.Proto{
		LineDefined: 1,
		LineInfo:    &bytecode.LineInfo{Rel: []int8{0, 1}},
		Code:        make([]bytecode.Instruction, 2),
	}
	info, ok := AssembleInfo(&Frame{Kind: ScriptFrame, Proto: p}, nil, "L")
	if !ok {
		t.Fatal("AssembleInfo('L') reported failure")
	}
	if !info.ValidLines[1] || !info.ValidLines[2] {
		t.Errorf("ValidLines = %v", info.ValidLines)
	}
}
