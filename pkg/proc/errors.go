package proc

import (
	"fmt"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

// This file implements spec.md §4.E: enriched error messages built from
// the frame walker (component B) and symbolic executor (component C). The
// exact wordings below are part of this repository's stable, user-visible
// ABI (spec.md §7: "exact wordings in §4.E must be preserved bit-for-bit")
// and must not be reworded even when it would read more naturally.

// RuntimeError is the error type every constructor in this file ultimately
// produces. It carries only the fully formatted, source-prefixed message —
// by the time one of these exists the interpreter is unwinding, not
// deciding what to do next, so there is nothing else useful to attach.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// typeName resolves a Value's dynamic type name via the external
// objtypename contract, defending against a nil Interp (used by tests that
// exercise the pure string-formatting helpers directly).
func (in *Interp) typeName(v Value) string {
	if in == nil || in.TypeName == nil {
		return "value"
	}
	return in.TypeName(v)
}

// varinfo implements spec.md §4.E's varinfo(o): identify which named slot
// in the current frame holds o, by address identity, and render it as
// " (kind 'name')" or "" if nothing matches. Address identity here means
// the *Value token obtained from &in.Stack[slot] or a closure's upvalue
// cell — see spec.md §9, "Pointer-identity search for varinfo".
func (in *Interp) varinfo(frame *Frame, target *Value) string {
	if frame == nil || target == nil {
		return ""
	}
	if frame.Closure != nil {
		for i, uv := range frame.Closure.Upvals {
			if uv == target {
				return fmt.Sprintf(" (upvalue '%s')", upvalName(frame.Proto, int32(i)))
			}
		}
	}
	sf, isScript := frame.asScript()
	if !isScript {
		return ""
	}
	for slot := frame.FuncSlot + 1; slot < frame.TopSlot && slot < len(in.Stack); slot++ {
		if &in.Stack[slot] == target {
			reg := int32(slot - frame.FuncSlot - 1)
			if kind, name := ObjName(sf.Proto, sf.CurrentPC(), reg); kind != "" {
				return fmt.Sprintf(" (%s '%s')", kind, name)
			}
			return ""
		}
	}
	return ""
}

// TypeError implements spec.md's typeerror(o, op).
func (in *Interp) TypeError(frame *Frame, target *Value, op string) string {
	var v Value
	if target != nil {
		v = *target
	}
	return fmt.Sprintf("attempt to %s a %s value%s", op, in.typeName(v), in.varinfo(frame, target))
}

// CallError implements spec.md's call error. Real Lua's luaG_callerror
// names the callee via funcnamefromcode applied to the current frame's
// instruction (the CALL that is about to fail), which is the same
// machinery spec.md's funcnamefromcall ultimately bottoms out on when a
// call is in flight; since no callee frame exists yet when the callee
// turns out not to be callable, this applies FuncNameFromCode directly to
// the executing frame rather than FuncNameFromCall (see DESIGN.md).
func (in *Interp) CallError(frame *Frame, target *Value) string {
	var v Value
	if target != nil {
		v = *target
	}
	if sf, ok := frame.asScript(); ok {
		if kind, name := FuncNameFromCode(sf.Proto, sf.CurrentPC()); kind != "" {
			return fmt.Sprintf("attempt to call a %s value (%s '%s')", in.typeName(v), kind, name)
		}
	}
	return fmt.Sprintf("attempt to call a %s value%s", in.typeName(v), in.varinfo(frame, target))
}

// ForError implements spec.md's for-loop error.
func (in *Interp) ForError(what string, target *Value) string {
	var v Value
	if target != nil {
		v = *target
	}
	return fmt.Sprintf("bad 'for' %s (number expected, got %s)", what, in.typeName(v))
}

// ConcatError implements spec.md's concatenation error: blame whichever
// operand isString reports false for.
func (in *Interp) ConcatError(frame *Frame, a, b *Value, isString func(Value) bool) string {
	bad := a
	if isString(deref(a)) {
		bad = b
	}
	return in.TypeError(frame, bad, "concatenate")
}

// ArithError implements spec.md's arithmetic/bitwise error: blame
// whichever operand isNumeric reports false for. op should be
// "perform arithmetic on" or "perform bitwise operation on".
func (in *Interp) ArithError(frame *Frame, a, b *Value, isNumeric func(Value) bool, op string) string {
	bad := a
	if isNumeric(deref(a)) {
		bad = b
	}
	return in.TypeError(frame, bad, op)
}

// IntegerCoercionError implements spec.md's integer-coercion error: bad is
// the first operand that failed integer coercion via the language's
// standard floor-semantics tointeger.
func (in *Interp) IntegerCoercionError(frame *Frame, bad *Value) string {
	return fmt.Sprintf("number%s has no integer representation", in.varinfo(frame, bad))
}

// OrderError implements spec.md's order (comparison) error.
func (in *Interp) OrderError(a, b Value) string {
	t1, t2 := in.typeName(a), in.typeName(b)
	if t1 == t2 {
		return fmt.Sprintf("attempt to compare two %s values", t1)
	}
	return fmt.Sprintf("attempt to compare %s with %s", t1, t2)
}

// AddInfo implements spec.md's addinfo: prefix msg with "chunkid:line: ".
func AddInfo(source string, line int, msg string) string {
	return fmt.Sprintf("%s:%d: %s", chunkIDOrPlaceholder(source), line, msg)
}

func chunkIDOrPlaceholder(source string) string {
	if source == "" {
		return "?"
	}
	return bytecode.ChunkID(source)
}

// ErrorMsg implements spec.md's errormsg: if a message handler is
// installed it runs synchronously over msg and its result becomes the
// thrown message; otherwise msg unwinds unchanged.
func (in *Interp) ErrorMsg(msg string) *RuntimeError {
	if in != nil && in.errFunc != nil {
		msg = in.errFunc(msg)
	}
	return &RuntimeError{Message: msg}
}

// SetErrorHandler installs the errfunc spec.md's errormsg consults.
func (in *Interp) SetErrorHandler(f func(msg string) string) { in.errFunc = f }

// CheckGCHook, if set, is called by RunError before formatting, since formatting
// allocates (spec.md §4.E). Wired to the external allocator's GC-check
// contract; nil is a valid "no GC coupling configured" value.
var CheckGCHook func()

// RunError implements spec.md's runerror: printf-format msg, prefix with
// src:line when frame is a script frame, then forward to ErrorMsg.
func (in *Interp) RunError(frame *Frame, format string, args ...interface{}) *RuntimeError {
	if CheckGCHook != nil {
		CheckGCHook()
	}
	msg := fmt.Sprintf(format, args...)
	if sf, ok := frame.asScript(); ok {
		msg = AddInfo(sf.Proto.Source, sf.Proto.GetFuncLine(sf.CurrentPC()), msg)
	}
	return in.ErrorMsg(msg)
}

func deref(v *Value) Value {
	if v == nil {
		return nil
	}
	return *v
}
