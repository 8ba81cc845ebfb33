package bytecode

import "fmt"

// AbsLineInfoSentinel is the value of LineInfo.Rel[pc] that signals "the
// line at this pc can only be recovered from Abs", spec.md's ABSLINEINFO.
const AbsLineInfoSentinel = -128

// MaxInstructionsWithoutAbs is spec.md's MAXIWTHABS: the compiler places an
// absolute anchor at least this often, bounding how far GetFuncLine ever
// has to walk from an anchor.
const MaxInstructionsWithoutAbs = 128

// AbsLineInfo is one (pc, line) anchor point.
type AbsLineInfo struct {
	PC   int
	Line int
}

// LineInfo is the compressed per-instruction line table: Rel holds signed
// deltas from the previous instruction's line (or AbsLineInfoSentinel),
// Abs holds periodic absolute anchors. Both are addressed by a relative
// pc (0 == the function's first instruction).
type LineInfo struct {
	Rel []int8
	Abs []AbsLineInfo
}

// Upvalue describes one upvalue captured by a closure.
type Upvalue struct {
	Name    string // empty if the compiler did not retain a name
	InStack bool
	Index   uint8
}

// LocalVar describes one local variable's name and the pc range ([StartPC,
// EndPC)) over which it is live.
type LocalVar struct {
	Name    string
	StartPC int
	EndPC   int
}

// Proto is the immutable compiled form of a script function: spec.md §3's
// Proto, external but consumed by the debug core. Everything here is
// write-once at compile time; the debug core only ever reads it.
type Proto struct {
	Source     string
	LineInfo   *LineInfo // nil if the function carries no line info at all
	Code       []Instruction
	Constants  []Constant
	Upvalues   []Upvalue
	Locals     []LocalVar
	LineDefined     int
	LastLineDefined int
	IsVararg   bool
	NumParams  int
	MaxStack   int
}

// ConstantKind tags the dynamic type of a Constant.
type ConstantKind int

const (
	ConstNil ConstantKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstString
)

// Constant is one entry of a prototype's constant pool.
type Constant struct {
	Kind ConstantKind
	Str  string
	Int  int64
	Flt  float64
	Bool bool
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstNil:
		return "nil"
	case ConstBool:
		return fmt.Sprintf("%v", c.Bool)
	case ConstInt:
		return fmt.Sprintf("%d", c.Int)
	case ConstFloat:
		return fmt.Sprintf("%g", c.Flt)
	case ConstString:
		return c.Str
	default:
		return "?"
	}
}

// GetFuncLine maps a pc to its source line (spec.md §4.A). Returns -1 if
// the prototype carries no line information at all.
//
// This is deliberately the same two-phase algorithm as upstream Lua's
// luaG_getfuncline: find the nearest anchor at or before pc (or fall back
// to LineDefined if pc precedes every anchor), then sum deltas from there.
func (p *Proto) GetFuncLine(pc int) int {
	if p.LineInfo == nil {
		return -1
	}
	li := p.LineInfo
	if len(li.Rel) == 0 {
		return p.LineDefined
	}

	basepc, baseline := -1, p.LineDefined
	if len(li.Abs) > 0 && pc >= li.Abs[0].PC {
		// pc/MAXIWTHABS - 1 is a valid lower-bound estimate for the
		// correct anchor index: anchors are placed at least every
		// MaxInstructionsWithoutAbs instructions, so the anchor that
		// covers pc can be no earlier than this estimate.
		i := pc/MaxInstructionsWithoutAbs - 1
		if i < 0 {
			i = 0
		}
		for i+1 < len(li.Abs) && li.Abs[i+1].PC <= pc {
			i++
		}
		basepc, baseline = li.Abs[i].PC, li.Abs[i].Line
	}

	line := baseline
	for cur := basepc + 1; cur <= pc; cur++ {
		delta := li.Rel[cur]
		if int(delta) == AbsLineInfoSentinel {
			panic(fmt.Sprintf("bytecode: ABSLINEINFO sentinel encountered at pc %d while walking from a chosen base; base selection is broken", cur))
		}
		line += int(delta)
	}
	return line
}

// ChangedLine is the fast path used by the trace engine (spec.md §4.A):
// when the gap between oldpc and newpc is small and contains no sentinel,
// sum the deltas directly instead of calling GetFuncLine twice.
func (p *Proto) ChangedLine(oldpc, newpc int) bool {
	if p.LineInfo == nil {
		return false
	}
	if newpc-oldpc < MaxInstructionsWithoutAbs/2 {
		delta := 0
		ok := true
		for pc := oldpc + 1; pc <= newpc; pc++ {
			if int(p.LineInfo.Rel[pc]) == AbsLineInfoSentinel {
				ok = false
				break
			}
			delta += int(p.LineInfo.Rel[pc])
		}
		if ok {
			return delta != 0
		}
	}
	return p.GetFuncLine(oldpc) != p.GetFuncLine(newpc)
}

// ValidLines returns the set of source lines that p has at least one
// instruction on — the 'L' field of getinfo (spec.md §4.D). For a vararg
// function the walk starts after the mandatory prelude instruction, since
// that instruction belongs to no user-visible line.
func (p *Proto) ValidLines() map[int]bool {
	lines := make(map[int]bool)
	if p.LineInfo == nil {
		return lines
	}
	start := 0
	if p.IsVararg {
		start = 1
	}
	for pc := start; pc < len(p.Code); pc++ {
		lines[p.GetFuncLine(pc)] = true
	}
	return lines
}
