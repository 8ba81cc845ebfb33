package proc

import "github.com/n-mahendra/sol/pkg/bytecode"

// FrameKind distinguishes a script activation record from a native
// (host-function) one, spec.md §3.
type FrameKind int

const (
	ScriptFrame FrameKind = iota
	NativeFrame
)

// CallStatus is the bitset spec.md §3 attaches to every Frame.
type CallStatus uint8

const (
	StatusTail CallStatus = 1 << iota
	StatusHooked
	StatusFin // finalizer (__gc) call
	StatusTransfer
	StatusHookYield
)

// Transfer records the (first_slot, count) of values the caller handed to
// this frame, spec.md §3's optional `transfer` attribute.
type Transfer struct {
	FirstSlot int
	Count     int
}

// Frame is one activation record, spec.md §3's Frame / "Activation record".
// ScriptFrame-only fields (SavedPC, NExtraArgs, Trap) are meaningless for a
// NativeFrame and are kept zero there; callers must check Kind (or use
// asScript) before touching them.
type Frame struct {
	previous *Frame
	Kind     FrameKind

	Proto    *bytecode.Proto // nil for NativeFrame
	FuncSlot int             // stack index of the called function value
	TopSlot  int             // stack index one past this frame's last value

	// SavedPC is the pc of the next instruction to execute, ScriptFrame
	// only. Invariant (spec.md §3): 0 <= SavedPC <= len(Proto.Code).
	SavedPC int
	// NExtraArgs counts variadic arguments stored below FuncSlot,
	// ScriptFrame only.
	NExtraArgs int
	// trap, when set, tells the interpreter to consult the hook engine on
	// each instruction. Unexported: only the hook engine (hook.go) and
	// PushFrame/SetTraps mutate it, matching spec.md §5's narrow-write
	// discipline for signal-safety.
	trap bool

	callstatus CallStatus
	Transfer   Transfer // valid iff callstatus&StatusTransfer != 0

	// NativeName optionally names a native function for DebugInfo's
	// "what"/"source" fields when there is no Proto to ask.
	NativeName string

	// Closure is the runtime closure object this frame is executing, used
	// by varinfo (spec.md §4.E) to test upvalue identity. nil for a frame
	// not yet backed by a closure (e.g. querying an uncalled function).
	Closure *Closure
}

// Closure is the runtime representation of a script closure: a Proto plus
// the upvalue cells it captured. Each cell is a *Value so that an upvalue
// shared between closures (an open upvalue still pointing at a live stack
// slot) and the slot itself compare equal by address, exactly like the
// stack-slot identity tokens varinfo uses for locals (spec.md §9).
type Closure struct {
	Proto  *bytecode.Proto
	Upvals []*Value
}

// Previous returns the caller's frame. The chain's base_ci sentinel is
// identified by Interp.baseCI, not by any field on Frame; callers walking
// toward the root should compare against that, since base_ci's own
// previous is always nil.
func (f *Frame) Previous() *Frame {
	if f == nil {
		return nil
	}
	return f.previous
}

// IsTailCall reports whether this activation replaced its caller's frame
// via a tail call (callstatus & TAIL, spec.md §3).
func (f *Frame) IsTailCall() bool { return f.callstatus&StatusTail != 0 }

// IsHooked reports whether CallHook has marked this frame HOOKED for the
// duration of a user hook (spec.md §4.F).
func (f *Frame) IsHooked() bool { return f.callstatus&StatusHooked != 0 }

// IsFinalizer reports whether this frame is running a __gc finalizer.
func (f *Frame) IsFinalizer() bool { return f.callstatus&StatusFin != 0 }

// HasTransfer reports whether Transfer is meaningful.
func (f *Frame) HasTransfer() bool { return f.callstatus&StatusTransfer != 0 }

// asScript returns f and true if f is a live ScriptFrame, else (nil,
// false). Centralizes the Kind check so mutation of trap/SavedPC never
// happens on a NativeFrame by accident.
func (f *Frame) asScript() (*Frame, bool) {
	if f == nil || f.Kind != ScriptFrame {
		return nil, false
	}
	return f, true
}

// CurrentPC returns the pc of the instruction that (for a live frame) is
// about to execute, or (for the frame below the top of the stack) the
// instruction whose execution produced the call into the frame above it.
// Either way it is SavedPC - 1 per spec.md's convention that SavedPC always
// points one past the last-executed instruction for a frame that is not
// topmost; the topmost frame's SavedPC already equals the next instruction
// to run so CurrentPC there is SavedPC itself when iterating live, but the
// debug core always queries suspended frames (SavedPC already advanced), so
// this single definition holds uniformly.
func (f *Frame) CurrentPC() int {
	if f == nil || f.Kind != ScriptFrame {
		return -1
	}
	pc := f.SavedPC - 1
	if pc < 0 {
		pc = 0
	}
	return pc
}
