package proc

import (
	"fmt"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

// This file implements spec.md §4.B, the frame walker. The overall shape —
// an iterator-like walk from the current frame toward the root, handing
// back one Frame per step — follows the same pattern as
// github.com/go-delve/delve's stackIterator (pkg/proc/stack.go), adapted
// from walking native call-frame-address chains to walking this
// interpreter's own singly-linked Frame.previous chain.

// GetStack walks previous links level times from in.Current and returns the
// frame found there, spec.md §4.B. A negative level, or a level that walks
// past the base_ci sentinel, yields (nil, false).
func (in *Interp) GetStack(level int) (*Frame, bool) {
	if level < 0 {
		return nil, false
	}
	f := in.Current
	for i := 0; i < level; i++ {
		if f == in.baseCI {
			return nil, false
		}
		f = f.previous
	}
	if f == in.baseCI {
		return nil, false
	}
	return f, true
}

// Depth returns the number of live frames above base_ci, used by the DAP
// adapter's stackTrace handler and the REPL's stack command.
func (in *Interp) Depth() int {
	n := 0
	for f := in.Current; f != in.baseCI; f = f.previous {
		n++
	}
	return n
}

// LocalRef names a slot found by FindLocal: a symbolic name (possibly one
// of the synthetic "(vararg)"/"(temporary)"/"(C temporary)" placeholders)
// and the absolute stack index it lives at.
type LocalRef struct {
	Name string
	Slot int
}

// FindLocal resolves local-variable index n against frame, spec.md §4.B.
// n follows Lua's convention: n > 0 indexes declared locals/parameters in
// source order (1-based), n < 0 indexes varargs counting from -1, and any
// n that lands inside the frame's active stack window but matches no
// declared name falls back to a synthetic "(temporary)"/"(C temporary)"
// label.
func FindLocal(frame *Frame, n int) (LocalRef, bool) {
	if frame == nil {
		return LocalRef{}, false
	}

	if n > 0 {
		if sf, ok := frame.asScript(); ok {
			if name, ok := localNameAt(sf.Proto, sf.CurrentPC(), n); ok {
				return LocalRef{Name: name, Slot: frame.FuncSlot + 1 + (n - 1)}, true
			}
		}
	} else if n < 0 {
		if sf, ok := frame.asScript(); ok && sf.Proto.IsVararg {
			if -n <= sf.NExtraArgs {
				slot := sf.FuncSlot - sf.NExtraArgs - (n + 1)
				return LocalRef{Name: "(vararg)", Slot: slot}, true
			}
		}
		return LocalRef{}, false
	}

	// n > 0 but unnamed, or n == 0: check whether it still addresses a
	// slot within the frame's active region.
	if n > 0 {
		slot := frame.FuncSlot + 1 + (n - 1)
		if slot >= frame.FuncSlot+1 && slot < frame.TopSlot {
			if frame.Kind == NativeFrame {
				return LocalRef{Name: "(C temporary)", Slot: slot}, true
			}
			return LocalRef{Name: "(temporary)", Slot: slot}, true
		}
	}
	return LocalRef{}, false
}

// localNameAt searches p's local-variable table for a local named and live
// at pc, returning the n-th such local in declaration order (1-based).
func localNameAt(p *bytecode.Proto, pc int, n int) (string, bool) {
	count := 0
	for _, lv := range p.Locals {
		if pc < lv.StartPC || pc >= lv.EndPC {
			continue
		}
		count++
		if count == n {
			return lv.Name, true
		}
	}
	return "", false
}

// GetLocal reads the value FindLocal(frame, n) resolves to and returns it
// with its LocalRef (spec.md §4.B's read pushes the value onto the caller's
// stack; here the caller receives it as a return value instead). frame
// must be a live activation record; querying a not-yet-called function's
// parameter names (spec.md §4.B's PC-0 case, which has no stack slot to
// read) is handled separately by Interp.GetLocalOfFunction.
func (in *Interp) GetLocal(frame *Frame, n int) (Value, LocalRef, error) {
	ref, ok := in.resolveLocal(frame, n)
	if !ok {
		return nil, LocalRef{}, errNoSuchLocal(n)
	}
	if ref.Slot < 0 || ref.Slot >= len(in.Stack) {
		return nil, LocalRef{}, errNoSuchLocal(n)
	}
	return in.Stack[ref.Slot], ref, nil
}

// SetLocal writes val into the slot FindLocal(frame, n) resolves to
// (spec.md §4.B: "write pops the top-of-stack value into it" — in this
// Go rendition the caller passes the value directly rather than popping
// an interpreter-stack top, since there is no separate caller stack to pop
// from across an API boundary).
func (in *Interp) SetLocal(frame *Frame, n int, val Value) (LocalRef, error) {
	ref, ok := in.resolveLocal(frame, n)
	if !ok {
		return LocalRef{}, errNoSuchLocal(n)
	}
	if ref.Slot < 0 || ref.Slot >= len(in.Stack) {
		return LocalRef{}, errNoSuchLocal(n)
	}
	in.Stack[ref.Slot] = val
	return ref, nil
}

func (in *Interp) resolveLocal(frame *Frame, n int) (LocalRef, bool) {
	if frame == nil {
		return LocalRef{}, false
	}
	return FindLocal(frame, n)
}

func errNoSuchLocal(n int) error {
	return fmt.Errorf("no such local index %d", n)
}
