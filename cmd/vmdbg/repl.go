package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-delve/liner"
	"github.com/spf13/cobra"

	"github.com/n-mahendra/sol/internal/replutil"
	"github.com/n-mahendra/sol/pkg/proc"
)

var replCommands = []string{"print", "locals", "stack", "continue", "step", "disasm", "help", "quit"}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl [chunk]",
		Short: "Interactively inspect a running prototype",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.OutOrStdout())
		},
	}
}

func runREPL(out io.Writer) error {
	log := newLogger()
	in := proc.New(func(v proc.Value) string {
		if v == nil {
			return "nil"
		}
		return "value"
	}, log)
	runDemo(in)

	completer := replutil.NewCompleter(replCommands)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCompleter(func(prefix string) []string {
		return completer.Complete(prefix)
	})

	for {
		text, err := line.Prompt("(vmdbg) ")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line.AppendHistory(text)

		args, err := replutil.SplitCommandLine(text)
		if err != nil {
			fmt.Fprintf(out, "parse error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if handled := dispatchREPLCommand(out, in, args); !handled {
			return nil
		}
	}
}

func dispatchREPLCommand(out io.Writer, in *proc.Interp, args []string) bool {
	switch strings.ToLower(args[0]) {
	case "quit", "q", "exit":
		return false
	case "stack":
		for level := 0; level < in.Depth(); level++ {
			info, err := in.Stack(level, "Sln")
			if err != nil {
				break
			}
			fmt.Fprintf(out, "#%d %s:%d\n", level, info.ShortSrc, info.CurrentLine)
		}
	case "locals":
		for n := 1; n <= 8; n++ {
			v, ref, err := in.GetLocalAt(0, n)
			if err != nil {
				break
			}
			fmt.Fprintf(out, "%s = %v\n", ref.Name, v)
		}
	case "disasm":
		for _, l := range in.Disassemble(demoProto()) {
			fmt.Fprintln(out, l)
		}
	case "help":
		fmt.Fprintln(out, strings.Join(replCommands, " "))
	default:
		fmt.Fprintf(out, "unknown command %q\n", args[0])
	}
	return true
}
