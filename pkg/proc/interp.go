// Package proc implements the debug and introspection core of the sol
// interpreter: activation-record walking, symbolic register-origin
// recovery, enriched error construction, and the hook/trace engine that
// drives user-installed line/call/count hooks. It is deliberately the only
// package in this module that understands both bytecode (pkg/bytecode) and
// live interpreter state — everything else here is a thin consumer of it.
package proc

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

// HookMask is a bitset over the four hook event classes spec.md §3 names.
type HookMask uint8

const (
	MaskCall HookMask = 1 << iota
	MaskReturn
	MaskLine
	MaskCount
)

// Event identifies which hook fired, passed to the user hook function.
type Event int

const (
	EventCall Event = iota
	EventTailCall
	EventReturn
	EventLine
	EventCount
)

func (e Event) String() string {
	switch e {
	case EventCall:
		return "call"
	case EventTailCall:
		return "tail call"
	case EventReturn:
		return "return"
	case EventLine:
		return "line"
	case EventCount:
		return "count"
	default:
		return "?"
	}
}

// Value is whatever dynamic value the interpreter's data stack holds. The
// debug core never inspects its contents, only its identity (see varinfo,
// spec.md §9 "Pointer-identity search") and its type name via TypeName.
type Value interface{}

// HookFunc is the user-installed hook. line is -1 for CALL/RETURN events.
// The bool it returns reports whether invoking it yielded the coroutine
// (spec.md §4.F / §5); a hook that never yields always returns false.
type HookFunc func(interp *Interp, event Event, line int) (yielded bool)

// Interp is one process-wide execution context: spec.md §3's "Interpreter
// state (external)". A single Interp may drive many coroutines, each with
// its own Stack/frame chain, but hook state is shared.
type Interp struct {
	mu sync.Mutex // the interpreter's lock (spec.md §5); a sync.Mutex, so not reentrant

	hook          HookFunc
	hookMask      HookMask
	baseHookCount int
	hookCount     int
	oldpc         int

	// errFunc, if non-nil, is invoked synchronously by errormsg (spec.md
	// §4.E) before the error unwinds.
	errFunc func(msg string) string

	// TypeName resolves a Value's dynamic type name, the external
	// objtypename contract (spec.md §6).
	TypeName func(Value) string

	// Current is the active coroutine's frame chain head. base_ci is the
	// chain's sentinel tail and is never nil once a coroutine exists.
	Current *Frame
	baseCI  *Frame

	// Stack backs every frame's func_slot/top_slot indices for the active
	// coroutine. Debug-core code takes identity tokens as *Value into this
	// slice (spec.md §9's pointer-identity search); it must never be
	// reallocated while frames reference it by index.
	Stack []Value

	lineCache *lineCache

	log *logrus.Entry
}

// New creates an Interp with an empty frame chain (just the base_ci
// sentinel) and a type-name resolver. log may be nil to disable logging.
func New(typeName func(Value) string, log *logrus.Entry) *Interp {
	base := &Frame{Kind: NativeFrame, callstatus: 0}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
		log.Logger.SetLevel(logrus.PanicLevel) // effectively silent
	}
	return &Interp{
		TypeName:  typeName,
		Current:   base,
		baseCI:    base,
		Stack:     make([]Value, 0, 256),
		lineCache: newLineCache(256),
		log:       log.WithField("component", "proc"),
	}
}

// PushFrame appends a new activation record on top of Current and makes it
// the current frame. Per spec.md §5's signal-safety contract, previous is
// fully set before frame becomes reachable as Current, so a concurrent
// signal-handler walk of the chain never observes a half-linked frame.
func (in *Interp) PushFrame(frame *Frame) {
	frame.previous = in.Current
	in.Current = frame
	if in.hookMask != 0 {
		if sf, ok := frame.asScript(); ok {
			sf.trap = true
		}
	}
}

// PopFrame unlinks Current, restoring its caller.
func (in *Interp) PopFrame() {
	if in.Current == in.baseCI {
		return
	}
	in.Current = in.Current.previous
}

// constantName decodes a constant operand (Bx/Ax) of proto into a Go
// string for diagnostics, used by the symbolic executor.
func constantName(p *bytecode.Proto, idx int32) string {
	if idx < 0 || int(idx) >= len(p.Constants) {
		return "?"
	}
	c := p.Constants[idx]
	if c.Kind == bytecode.ConstString {
		return c.Str
	}
	return "?"
}
