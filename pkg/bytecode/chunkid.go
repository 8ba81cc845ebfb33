package bytecode

import "strings"

// IDSIZE bounds the printable form of a chunk's source identifier, spec.md
// §6's "ChunkID(buf, source_bytes, len)" contract. Lua's default LUA_IDSIZE
// is 60; this repository has no separate emitter to own the contract, so it
// lives here as a supplemented feature (see SPEC_FULL.md).
const IDSIZE = 60

// ChunkID collapses a raw source identifier into a printable string no
// longer than IDSIZE, the short_src field of spec.md's DebugInfo.
//
// Three source kinds, following Lua's luaO_chunkid:
//   - "=name": a tagged short name, used verbatim (minus the '=') up to
//     IDSIZE-1 bytes.
//   - "@name": a file name; if it fits, used verbatim, otherwise the tail
//     is kept and prefixed with "...".
//   - anything else: a literal chunk; only the first line is shown,
//     wrapped as `[string "..."]`, truncated with an ellipsis if needed.
func ChunkID(source string) string {
	switch {
	case source == "":
		return "?"
	case source[0] == '=':
		return truncate(source[1:], IDSIZE-1)
	case source[0] == '@':
		name := source[1:]
		if len(name) <= IDSIZE-1 {
			return name
		}
		return "..." + name[len(name)-(IDSIZE-1-3):]
	default:
		return literalChunkID(source)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func literalChunkID(source string) string {
	const prefix = `[string "`
	const suffix = `"]`
	budget := IDSIZE - len(prefix) - len(suffix)

	firstLine := source
	truncated := false
	if idx := strings.IndexByte(source, '\n'); idx >= 0 {
		firstLine = source[:idx]
		truncated = true
	}
	if len(firstLine) > budget {
		cut := budget - 3
		if cut < 0 {
			cut = 0
		}
		firstLine = firstLine[:cut] + "..."
	} else if truncated {
		if len(firstLine)+3 <= budget {
			firstLine += "..."
		}
	}
	return prefix + firstLine + suffix
}
