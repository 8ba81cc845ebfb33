package proc

import (
	"errors"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

// This file implements spec.md §4.F, the hook/trace engine.

// ErrHookYield is returned by TraceExec when a fired hook yielded the
// coroutine mid-instruction (spec.md §4.F step 7 / §5's suspension
// points). The caller (the dispatch loop, out of scope here) is expected
// to unwind exactly like any other yield and resume later at the same pc,
// at which point TraceExec will see StatusHookYield set and return
// immediately without firing again (step 3).
var ErrHookYield = errors.New("proc: hook yielded")

// CallHook invokes the user-installed hook, transiently marking frame
// HOOKED for the duration (spec.md §4.F's callhook). Returns whether the
// hook yielded. A nil hook is a no-op that never yields.
func (in *Interp) CallHook(frame *Frame, event Event, line int) bool {
	if in.hook == nil {
		return false
	}
	prev := frame.callstatus
	frame.callstatus |= StatusHooked
	yielded := in.hook(in, event, line)
	frame.callstatus = prev
	return yielded
}

// TraceCall implements spec.md's tracecall, called on entry to a script
// function. Vararg functions fire their CALL hook from the mandatory
// prelude instruction instead (owned by the dispatch loop, out of scope
// here), so this never fires one for them.
func (in *Interp) TraceCall(frame *Frame, resumingFromHookYield bool) {
	sf, ok := frame.asScript()
	if !ok {
		return
	}
	sf.trap = true
	if sf.SavedPC == 0 && !sf.Proto.IsVararg && !resumingFromHookYield {
		in.CallHook(frame, EventCall, -1)
	}
}

// TruncateTop, if set, truncates the interpreter's stack top to frame's
// declared top before a hook runs arbitrary code (spec.md §4.F step 4).
// Left nil, TraceExec simply skips this step — the dispatch loop that
// actually owns the stack top is out of scope for this module.
var TruncateTop func(frame *Frame)

// TraceExec implements spec.md's traceexec, called with the pc about to
// execute whenever any frame has trap set. Returns ErrHookYield if a fired
// hook yielded; any other return is nil ("keep trap on" is then implicit
// in the caller continuing to call TraceExec on the next instruction,
// since frame.trap is only ever cleared by the first-line early return
// below).
func (in *Interp) TraceExec(frame *Frame, pc int) error {
	sf, ok := frame.asScript()
	if !ok {
		return nil
	}

	if in.hookMask&(MaskLine|MaskCount) == 0 {
		sf.trap = false
		return nil
	}

	sf.SavedPC = pc + 1

	countFired := false
	if in.hookMask&MaskCount != 0 {
		in.hookCount--
		if in.hookCount == 0 {
			in.hookCount = in.baseHookCount
			countFired = true
		}
	}

	if sf.callstatus&StatusHookYield != 0 {
		sf.callstatus &^= StatusHookYield
		return nil
	}

	if !bytecode.IsIT(sf.Proto.Code[pc]) && TruncateTop != nil {
		TruncateTop(frame)
	}

	if countFired {
		if in.CallHook(frame, EventCount, -1) {
			in.hookCount++ // undo the decrement: resume sees the same pending count.
			sf.callstatus |= StatusHookYield
			return ErrHookYield
		}
	}

	if in.hookMask&MaskLine != 0 {
		npci := pc
		oldpc := in.oldpc
		if oldpc < 0 || oldpc >= len(sf.Proto.Code) {
			oldpc = 0
		}
		if npci <= oldpc || sf.Proto.ChangedLine(oldpc, npci) {
			line := in.line(sf.Proto, npci)
			if in.CallHook(frame, EventLine, line) {
				sf.callstatus |= StatusHookYield
				in.oldpc = npci
				return ErrHookYield
			}
		}
		in.oldpc = npci
	}
	return nil
}

// SetTraps walks the entire frame chain and arms trap on every script
// frame (spec.md's settraps, invoked on a hook-mask change). Per spec.md
// §5, this is designed to be safe to call from a signal handler: it only
// ever sets bits, never clears them, so a torn read of the chain mid-walk
// can at most miss arming one frame, which resolves itself the next time
// the mask changes.
func (in *Interp) SetTraps() {
	for f := in.Current; f != in.baseCI; f = f.previous {
		if sf, ok := f.asScript(); ok {
			sf.trap = true
		}
	}
}
