// Command vmdbg is a CLI front end over the sol debug core (pkg/proc):
// line/call tracing, an interactive REPL inspector, and a Debug Adapter
// Protocol server, in the shape of delve's cmd/dlv.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("vmdbg failed")
		os.Exit(1)
	}
}
