package proc

import "github.com/n-mahendra/sol/pkg/bytecode"

// DebugInfo is spec.md §3's caller-allocated debug-info record. Only the
// fields named by the tag string passed to AssembleInfo are meaningful;
// everything else is left at its zero value. The opaque i_ci frame handle
// of spec.md is simply the *Frame itself here.
type DebugInfo struct {
	Source          string
	SrcLen          int
	ShortSrc        string
	What            string // "C" | "Sol" | "main"
	LineDefined     int
	LastLineDefined int
	CurrentLine     int
	Name            string
	NameWhat        string // "" | "local" | "upvalue" | "field" | "global" | "method" | "for iterator" | "hook" | "metamethod" | "?"
	NUps            int
	NParams         int
	IsVararg        bool
	IsTailCall      bool
	FTransfer       int
	NTransfer       int
	ValidLines      map[int]bool

	Frame *Frame
	Proto *bytecode.Proto
}

// AssembleInfo implements spec.md §4.D: fill a DebugInfo from frame (stack
// mode) or proto (function-on-stack mode, frame == nil) according to the
// single-character tags in spec. The 'f' tag is intentionally not handled
// here — spec.md says pushing the function value is the caller's job — so
// its presence in spec never causes failure by itself. An unrecognized tag
// character causes AssembleInfo to report ok=false, but every recognized
// tag before and after it is still processed (spec.md §4.D).
func AssembleInfo(frame *Frame, proto *bytecode.Proto, spec string) (*DebugInfo, bool) {
	info := &DebugInfo{Frame: frame}
	if frame != nil {
		proto = frame.Proto
	}
	info.Proto = proto

	ok := true
	for _, tag := range spec {
		switch tag {
		case 'S':
			fillSource(info, frame, proto)
		case 'l':
			info.CurrentLine = -1
			if frame != nil {
				if sf, isScript := frame.asScript(); isScript {
					info.CurrentLine = sf.Proto.GetFuncLine(sf.CurrentPC())
				}
			}
		case 'u':
			if proto != nil {
				info.NUps = len(proto.Upvalues)
				info.NParams = proto.NumParams
				info.IsVararg = proto.IsVararg
			} else {
				// Native closures are treated as vararg with zero declared
				// params (spec.md §4.D).
				info.NUps = 0
				info.NParams = 0
				info.IsVararg = true
			}
		case 't':
			if frame != nil {
				info.IsTailCall = frame.IsTailCall()
			}
		case 'n':
			info.NameWhat, info.Name = "", ""
			if frame != nil {
				if kind, name := FuncNameFromCall(frame); kind != "" {
					info.NameWhat, info.Name = kind, name
				}
			}
		case 'r':
			if frame != nil && frame.HasTransfer() {
				info.FTransfer = frame.Transfer.FirstSlot
				info.NTransfer = frame.Transfer.Count
			} else {
				info.FTransfer, info.NTransfer = 0, 0
			}
		case 'L':
			if proto != nil {
				info.ValidLines = proto.ValidLines()
			} else {
				info.ValidLines = map[int]bool{}
			}
		case 'f':
			// Handled by the caller: push the function value.
		default:
			ok = false
		}
	}
	return info, ok
}

func fillSource(info *DebugInfo, frame *Frame, proto *bytecode.Proto) {
	isNative := proto == nil
	if frame != nil && frame.Kind == NativeFrame {
		isNative = true
	}
	if isNative {
		info.Source = "=[C]"
		info.ShortSrc = "[C]"
		info.What = "C"
		info.LineDefined = -1
		info.LastLineDefined = -1
		return
	}
	if proto.Source == "" {
		info.Source = "=?"
		info.ShortSrc = "?"
	} else {
		info.Source = proto.Source
		info.ShortSrc = bytecode.ChunkID(proto.Source)
	}
	info.SrcLen = len(info.Source)
	info.LineDefined = proto.LineDefined
	info.LastLineDefined = proto.LastLineDefined
	if proto.LineDefined == 0 {
		info.What = "main"
	} else {
		info.What = "Sol"
	}
}
