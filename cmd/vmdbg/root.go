package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/n-mahendra/sol/internal/config"
)

var (
	cfgPath  string
	logLevel string
)

// newRootCmd builds the vmdbg command tree: trace, repl, dap, in the shape
// of delve's own cmd/dlv root.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vmdbg",
		Short: "Debug and introspect sol bytecode",
		Long: "vmdbg drives the sol interpreter's debug core (pkg/proc) against a " +
			"compiled prototype: line tracing, an interactive inspector, and a " +
			"Debug Adapter Protocol server.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "session config YAML (default: built-in defaults)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warning", "logrus level: debug, info, warning, error")

	root.AddCommand(newTraceCmd(), newReplCmd(), newDAPCmd())
	return root
}

func loadSession() *config.Session {
	if cfgPath == "" {
		return config.Default()
	}
	s, err := config.Load(cfgPath)
	if err != nil {
		logrus.WithError(err).Warn("failed to load session config, using defaults")
		return config.Default()
	}
	return s
}

func newLogger() *logrus.Entry {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		log.SetLevel(lvl)
	}
	return logrus.NewEntry(log)
}
