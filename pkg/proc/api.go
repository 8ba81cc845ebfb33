package proc

import (
	hqerrors "github.com/hueristiq/hq-go-errors"
)

// This file implements spec.md §4.G, the host API surface: thin,
// lock-protected wrappers around components B–F. Usage failures here
// (bad frame level, unknown local, getinfo on a non-function) are Go-level
// errors distinct from the interpreter's own formatted runtime-error
// strings built in errors.go — those remain bit-exact per spec.md §7, so
// they are never routed through this package's error type. These use
// github.com/hueristiq/hq-go-errors to carry a stack trace and a
// classification tag, the way the rest of the pack's error-heavy code
// does.
const (
	ErrTypeNoSuchFrame    hqerrors.Type = "NO_SUCH_FRAME"
	ErrTypeBadLocalIndex  hqerrors.Type = "BAD_LOCAL_INDEX"
	ErrTypeNotAFunction   hqerrors.Type = "NOT_A_FUNCTION"
	ErrTypeBadGetInfoTags hqerrors.Type = "BAD_GETINFO_TAGS"
)

// SetHook implements spec.md's sethook(fn, mask, count). Installing any
// non-zero mask re-arms every live frame via SetTraps; sethook(nil, 0, 0)
// is idempotent and leaves already-idle frames' trap bits untouched
// (spec.md §8's law).
func (in *Interp) SetHook(fn HookFunc, mask HookMask, count int) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.hook = fn
	in.hookMask = mask
	in.baseHookCount = count
	in.hookCount = count
	in.oldpc = 0
	if mask != 0 {
		in.SetTraps()
	}
}

// GetHook implements spec.md's gethook().
func (in *Interp) GetHook() HookFunc {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.hook
}

// GetHookMask implements spec.md's gethookmask().
func (in *Interp) GetHookMask() HookMask {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.hookMask
}

// GetHookCount implements spec.md's gethookcount(), which (per spec.md
// §4.G) returns basehookcount, not the live countdown.
func (in *Interp) GetHookCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.baseHookCount
}

// Stack implements spec.md's getstack(level, &info): resolve level to a
// frame, then assemble a DebugInfo for it using the requested tags.
func (in *Interp) Stack(level int, tags string) (*DebugInfo, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	frame, ok := in.GetStack(level)
	if !ok {
		return nil, hqerrors.New("no frame at level", hqerrors.WithType(ErrTypeNoSuchFrame), hqerrors.WithField("level", level))
	}
	info, ok := AssembleInfo(frame, nil, tags)
	if !ok {
		return info, hqerrors.New("unrecognized getinfo tag", hqerrors.WithType(ErrTypeBadGetInfoTags), hqerrors.WithField("tags", tags))
	}
	return info, nil
}

// GetInfo implements spec.md's getinfo(tags, &info). When fn is non-nil
// (the '>' leading-character mode: asking about a popped function value
// rather than a stack level), info is assembled from fn directly; of the
// frame-dependent tags, 'l' reports CurrentLine -1 and 't', 'n', 'r' are
// left at their zero value, matching spec.md's description of
// function-on-stack mode.
func (in *Interp) GetInfo(level int, fn *Closure, tags string) (*DebugInfo, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if fn != nil {
		info, ok := AssembleInfo(nil, fn.Proto, tags)
		if !ok {
			return info, hqerrors.New("unrecognized getinfo tag", hqerrors.WithType(ErrTypeBadGetInfoTags), hqerrors.WithField("tags", tags))
		}
		return info, nil
	}

	frame, ok := in.GetStack(level)
	if !ok {
		return nil, hqerrors.New("no frame at level", hqerrors.WithType(ErrTypeNoSuchFrame), hqerrors.WithField("level", level))
	}
	info, ok := AssembleInfo(frame, nil, tags)
	if !ok {
		return info, hqerrors.New("unrecognized getinfo tag", hqerrors.WithType(ErrTypeBadGetInfoTags), hqerrors.WithField("tags", tags))
	}
	return info, nil
}

// GetLocalAt implements spec.md's getlocal: resolve (level, n) to a frame
// and read its local.
func (in *Interp) GetLocalAt(level int, n int) (Value, LocalRef, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	frame, ok := in.GetStack(level)
	if !ok {
		return nil, LocalRef{}, hqerrors.New("no frame at level", hqerrors.WithType(ErrTypeNoSuchFrame), hqerrors.WithField("level", level))
	}
	v, ref, err := in.GetLocal(frame, n)
	if err != nil {
		return nil, LocalRef{}, hqerrors.Wrap(err, "getlocal", hqerrors.WithType(ErrTypeBadLocalIndex), hqerrors.WithField("n", n))
	}
	return v, ref, nil
}

// GetLocalOfFunction implements the PC-0 half of spec.md §4.B's getlocal:
// "the caller may query parameters by name of a script function at PC 0."
// fn has no activation record yet, so there is no stack slot to read —
// this only resolves the declared parameter name, by consulting fn.Proto's
// local-variable table the same way localNameAt does for a live frame.
func (in *Interp) GetLocalOfFunction(fn *Closure, n int) (LocalRef, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if fn == nil || fn.Proto == nil {
		return LocalRef{}, hqerrors.New("no function given", hqerrors.WithType(ErrTypeNotAFunction))
	}
	name, ok := localNameAt(fn.Proto, 0, n)
	if !ok {
		return LocalRef{}, hqerrors.New("no such local index", hqerrors.WithType(ErrTypeBadLocalIndex), hqerrors.WithField("n", n))
	}
	return LocalRef{Name: name, Slot: -1}, nil
}

// SetLocalAt implements spec.md's setlocal: resolve (level, n) to a frame
// and write its local.
func (in *Interp) SetLocalAt(level int, n int, val Value) (LocalRef, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	frame, ok := in.GetStack(level)
	if !ok {
		return LocalRef{}, hqerrors.New("no frame at level", hqerrors.WithType(ErrTypeNoSuchFrame), hqerrors.WithField("level", level))
	}
	ref, err := in.SetLocal(frame, n, val)
	if err != nil {
		return LocalRef{}, hqerrors.Wrap(err, "setlocal", hqerrors.WithType(ErrTypeBadLocalIndex), hqerrors.WithField("n", n))
	}
	return ref, nil
}
