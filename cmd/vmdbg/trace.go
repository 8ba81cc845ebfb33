package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/n-mahendra/sol/pkg/proc"
)

const (
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiGreen  = "\x1b[32m"
	ansiReset  = "\x1b[0m"
)

func newTraceCmd() *cobra.Command {
	var disasm bool
	cmd := &cobra.Command{
		Use:   "trace [chunk]",
		Short: "Run with hooks installed and print CALL/LINE/COUNT/RETURN events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.OutOrStdout(), disasm)
		},
	}
	cmd.Flags().BoolVar(&disasm, "disasm", false, "print the prototype's disassembly before tracing")
	return cmd
}

func runTrace(out io.Writer, disasm bool) error {
	session := loadSession()
	log := newLogger()
	in := proc.New(func(v proc.Value) string {
		if v == nil {
			return "nil"
		}
		return "value"
	}, log)

	colorOut := colorable.NewColorable(os.Stdout)
	colored := isatty.IsTerminal(os.Stdout.Fd())

	if disasm {
		for _, line := range in.Disassemble(demoProto()) {
			fmt.Fprintln(out, line)
		}
	}

	in.SetHook(traceHook(colorOut, colored), session.HookMaskValue(), session.BaseHookCount)
	runDemo(in)
	return nil
}

// traceHook prints one line per fired event, colored by event class when
// stdout is a terminal — mirroring delve's own colored CLI output.
func traceHook(out io.Writer, colored bool) proc.HookFunc {
	return func(in *proc.Interp, event proc.Event, line int) bool {
		color, reset := "", ""
		if colored {
			reset = ansiReset
			switch event {
			case proc.EventCall, proc.EventTailCall, proc.EventReturn:
				color = ansiGreen
			case proc.EventLine:
				color = ansiCyan
			case proc.EventCount:
				color = ansiYellow
			}
		}
		if line >= 0 {
			fmt.Fprintf(out, "%s%-6s%s line %d\n", color, event, reset, line)
		} else {
			fmt.Fprintf(out, "%s%-6s%s\n", color, event, reset)
		}
		return false
	}
}
