// Package replutil supplies the REPL subcommand's line-editing support:
// command/local-name completion and shell-like command-line splitting.
package replutil

import (
	"sort"
	"strings"

	"github.com/cosiner/argv"
	"github.com/derekparker/trie"
)

// Completer offers completions over a fixed set of REPL command names plus
// whatever local-variable names are currently in scope, mirroring the
// teacher's own REPL completer shape (cmd/dlv's terminal command set) but
// trie-backed for prefix lookup instead of a linear command list scan.
type Completer struct {
	commands *trie.Trie
}

// NewCompleter builds a completer seeded with the REPL's built-in commands.
func NewCompleter(commands []string) *Completer {
	t := trie.New()
	for _, c := range commands {
		t.Add(c, nil)
	}
	return &Completer{commands: t}
}

// Complete returns every known command name with the given prefix, sorted.
// An empty prefix returns nil.
func (c *Completer) Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}
	matches := c.commands.PrefixSearch(prefix)
	sort.Strings(matches)
	return matches
}

// CompleteLocal extends Complete with names live in the current frame, so
// e.g. "print loc<TAB>" can complete "local" variable names the symbolic
// executor has resolved for the active scope.
func (c *Completer) CompleteLocal(prefix string, locals []string) []string {
	out := c.Complete(prefix)
	for _, l := range locals {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// SplitCommandLine tokenizes a typed REPL line the way a shell would
// (quoting, escapes), so `print "hi there"` becomes ["print", "hi there"].
// Pipelines aren't a REPL concept here, so only the first segment is used.
func SplitCommandLine(line string) ([]string, error) {
	segments, err := argv.Argv([]rune(line), nil, nil)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, nil
	}
	return segments[0], nil
}
