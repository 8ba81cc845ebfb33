package proc

import "github.com/n-mahendra/sol/pkg/bytecode"

// testTypeName is the TypeName contract implementation used throughout
// this package's tests: just enough to drive TypeError/ArithError/etc.
// wording without pulling in a real value representation.
func testTypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case int, int64, float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	return "value"
}

func newTestInterp() *Interp {
	return New(testTypeName, nil)
}

// newScriptFrame builds a minimal ScriptFrame backed by proto, with the
// interpreter's Stack populated from slots (slots[0] sits at FuncSlot).
func newScriptFrame(in *Interp, proto *bytecode.Proto, funcSlot int, slots []Value, savedPC int) *Frame {
	for len(in.Stack) < funcSlot+len(slots) {
		in.Stack = append(in.Stack, nil)
	}
	for i, v := range slots {
		in.Stack[funcSlot+i] = v
	}
	return &Frame{
		Kind:     ScriptFrame,
		Proto:    proto,
		FuncSlot: funcSlot,
		TopSlot:  funcSlot + len(slots),
		SavedPC:  savedPC,
	}
}
