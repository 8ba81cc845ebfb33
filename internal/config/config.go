// Package config loads a debug session's YAML configuration document: the
// default hook mask to install on startup, the base hook count, how trace
// output is rendered, and where the DAP server listens.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/n-mahendra/sol/pkg/proc"
)

// TraceMode names a trace rendering mode in the session document.
// cmd/vmdbg's trace subcommand does not read it: it colors events whenever
// stdout is a terminal, prints plain text otherwise, and has no JSON output.
type TraceMode string

const (
	TraceModePlain TraceMode = "plain"
	TraceModeColor TraceMode = "color"
	TraceModeJSON  TraceMode = "json"
)

// Session is the top-level document a debug session is configured from.
type Session struct {
	HookMask      []string  `yaml:"hookMask"`
	BaseHookCount int       `yaml:"baseHookCount"`
	TraceMode     TraceMode `yaml:"traceMode"`
	DAPListen     string    `yaml:"dapListen"`
}

// Default returns the configuration cmd/vmdbg uses when no file is given.
func Default() *Session {
	return &Session{
		HookMask:      []string{"line", "call", "return"},
		BaseHookCount: 0,
		TraceMode:     TraceModePlain,
		DAPListen:     "127.0.0.1:4711",
	}
}

// Load reads and parses a Session document from path.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return s, nil
}

// HookMaskValue translates the config's string mask names into proc's
// bitset, ignoring unrecognized entries.
func (s *Session) HookMaskValue() proc.HookMask {
	var mask proc.HookMask
	for _, name := range s.HookMask {
		switch name {
		case "call":
			mask |= proc.MaskCall
		case "return":
			mask |= proc.MaskReturn
		case "line":
			mask |= proc.MaskLine
		case "count":
			mask |= proc.MaskCount
		}
	}
	return mask
}
