package proc

import (
	"testing"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

type recordedEvent struct {
	event Event
	line  int
}

func recordingHook(events *[]recordedEvent) HookFunc {
	return func(in *Interp, event Event, line int) bool {
		*events = append(*events, recordedEvent{event, line})
		return false
	}
}

func lineTraceProto() *bytecode.Proto {
	return &bytecode.Proto{
		LineDefined: 1,
		LineInfo:    &bytecode.LineInfo{Rel: []int8{0, 1, 0, 1}},
		Code: []bytecode.Instruction{
			{Op: bytecode.OpMove},
			{Op: bytecode.OpMove},
			{Op: bytecode.OpMove},
			{Op: bytecode.OpMove},
		},
	}
}

// TestTraceExecLineHooksOncePerDistinctLine is spec.md §8 scenario 5's
// shape: a LINE hook fires exactly once per distinct source line reached,
// not once per instruction.
func TestTraceExecLineHooksOncePerDistinctLine(t *testing.T) {
	in := newTestInterp()
	var events []recordedEvent
	in.SetHook(recordingHook(&events), MaskLine, 0)

	frame := &Frame{Kind: ScriptFrame, Proto: lineTraceProto()}
	in.PushFrame(frame)

	for pc := 0; pc < 4; pc++ {
		if err := in.TraceExec(frame, pc); err != nil {
			t.Fatalf("TraceExec(%d): %v", pc, err)
		}
	}

	wantLines := []int{1, 2, 3}
	if len(events) != len(wantLines) {
		t.Fatalf("got %d line hooks %+v, want %d", len(events), events, len(wantLines))
	}
	for i, w := range wantLines {
		if events[i].event != EventLine || events[i].line != w {
			t.Errorf("event[%d] = %+v, want line %d", i, events[i], w)
		}
	}
}

func TestTraceExecNoHooksWithEmptyMask(t *testing.T) {
	in := newTestInterp()
	frame := &Frame{Kind: ScriptFrame, Proto: lineTraceProto(), trap: true}
	in.PushFrame(frame)

	if err := in.TraceExec(frame, 0); err != nil {
		t.Fatalf("TraceExec: %v", err)
	}
	if frame.trap {
		t.Errorf("TraceExec with no LINE/COUNT mask left trap set, want cleared")
	}
}

func TestTraceExecCountFiresBeforeLineOnSameInstruction(t *testing.T) {
	in := newTestInterp()
	var events []recordedEvent
	in.SetHook(recordingHook(&events), MaskLine|MaskCount, 1)

	frame := &Frame{Kind: ScriptFrame, Proto: lineTraceProto()}
	in.PushFrame(frame)

	if err := in.TraceExec(frame, 0); err != nil {
		t.Fatalf("TraceExec: %v", err)
	}
	if len(events) < 2 {
		t.Fatalf("got %d events, want at least 2 (count, line)", len(events))
	}
	if events[0].event != EventCount {
		t.Errorf("first event = %v, want COUNT to precede LINE", events[0].event)
	}
}

func TestTraceCallFiresOnceForFreshNonVarargFrame(t *testing.T) {
	in := newTestInterp()
	var events []recordedEvent
	in.SetHook(recordingHook(&events), MaskCall, 0)

	frame := &Frame{Kind: ScriptFrame, Proto: lineTraceProto()}
	in.TraceCall(frame, false)

	if len(events) != 1 || events[0].event != EventCall {
		t.Errorf("events = %+v, want exactly one CALL hook", events)
	}
	if !frame.trap {
		t.Errorf("TraceCall left trap unset")
	}
}

func TestTraceCallSkipsVarargPrelude(t *testing.T) {
	in := newTestInterp()
	var events []recordedEvent
	in.SetHook(recordingHook(&events), MaskCall, 0)

	p := lineTraceProto()
	p.IsVararg = true
	frame := &Frame{Kind: ScriptFrame, Proto: p}
	in.TraceCall(frame, false)

	if len(events) != 0 {
		t.Errorf("TraceCall on vararg frame fired %d hooks, want 0 (owned by the prelude instruction)", len(events))
	}
}

func TestSetHookNilIdempotent(t *testing.T) {
	in := newTestInterp()
	frame := &Frame{Kind: ScriptFrame, Proto: lineTraceProto()}
	in.PushFrame(frame)
	trapBefore := frame.trap

	in.SetHook(nil, 0, 0)

	if frame.trap != trapBefore {
		t.Errorf("sethook(nil,0,0) disturbed trap on an idle frame: before=%v after=%v", trapBefore, frame.trap)
	}
	in.SetHook(recordingHook(&[]recordedEvent{}), MaskLine, 0)
	if !frame.trap {
		t.Errorf("sethook with a non-zero mask did not re-arm the frame")
	}
}

func TestHookYieldLatchSkipsNextFire(t *testing.T) {
	in := newTestInterp()
	var events []recordedEvent
	yielded := true
	in.hook = func(interp *Interp, event Event, line int) bool {
		events = append(events, recordedEvent{event, line})
		return yielded
	}
	in.hookMask = MaskLine

	frame := &Frame{Kind: ScriptFrame, Proto: lineTraceProto()}
	in.PushFrame(frame)

	err := in.TraceExec(frame, 0)
	if err != ErrHookYield {
		t.Fatalf("TraceExec after a yielding hook = %v, want ErrHookYield", err)
	}
	if frame.callstatus&StatusHookYield == 0 {
		t.Fatalf("StatusHookYield not set after a yielding hook")
	}

	// Resuming at the same pc must not re-fire the hook.
	yielded = false
	if err := in.TraceExec(frame, 0); err != nil {
		t.Fatalf("TraceExec on resume: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d hook invocations across yield+resume, want exactly 1", len(events))
	}
}
