package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/n-mahendra/sol/internal/dap"
	"github.com/n-mahendra/sol/pkg/proc"
)

func newDAPCmd() *cobra.Command {
	var listen bool
	cmd := &cobra.Command{
		Use:   "dap",
		Short: "Speak the Debug Adapter Protocol on stdio, or over TCP with --listen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDAP(listen)
		},
	}
	cmd.Flags().BoolVar(&listen, "listen", false, "listen on the session config's dapListen address instead of stdio")
	return cmd
}

func runDAP(listen bool) error {
	session := loadSession()
	log := newLogger()

	in := proc.New(func(v proc.Value) string {
		if v == nil {
			return "nil"
		}
		return "value"
	}, log)
	runDemo(in)

	if !listen {
		return dap.NewServer(in, os.Stdin, os.Stdout, log).Serve()
	}

	ln, err := net.Listen("tcp", session.DAPListen)
	if err != nil {
		return fmt.Errorf("dap: listen on %s: %w", session.DAPListen, err)
	}
	defer ln.Close()
	log.WithField("addr", session.DAPListen).Info("DAP server listening")

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("dap: accept: %w", err)
	}
	defer conn.Close()
	return dap.NewServer(in, conn, conn, log).Serve()
}
