package proc

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/n-mahendra/sol/pkg/bytecode"
)

// lineCache memoizes Proto.GetFuncLine by (proto, pc), so that a hot
// TraceExec loop (called once per instruction whenever LINE or COUNT is
// enabled, spec.md §4.F) doesn't re-sum the delta table on every step for
// pcs it has already resolved. Correctness never depends on this: per
// spec.md §8, GetFuncLine is a pure function of (proto, pc), so a stale or
// evicted entry can only cost time, never produce a wrong answer, since an
// eviction simply falls through to recomputing it.
type lineCache struct {
	c *lru.Cache
}

type lineCacheKey struct {
	proto *bytecode.Proto
	pc    int
}

func newLineCache(size int) *lineCache {
	c, err := lru.New(size)
	if err != nil {
		// Only returns an error for a non-positive size, which never
		// happens with the constant callers below.
		panic(err)
	}
	return &lineCache{c: c}
}

// line returns p.GetFuncLine(pc), using in's cache when present.
func (in *Interp) line(p *bytecode.Proto, pc int) int {
	if in.lineCache == nil {
		return p.GetFuncLine(pc)
	}
	key := lineCacheKey{proto: p, pc: pc}
	if v, ok := in.lineCache.c.Get(key); ok {
		return v.(int)
	}
	line := p.GetFuncLine(pc)
	in.lineCache.c.Add(key, line)
	return line
}
