package main

import (
	"github.com/spf13/cobra"

	"github.com/allansene/orchest/cmd/orchest-fs/tui"
	"github.com/allansene/orchest/pkg/logging"
)

// runBrowse launches the interactive file browser. It is the root
// command's default action.
func runBrowse(cmd *cobra.Command, args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	scope, err := requireScope()
	if err != nil {
		return err
	}
	mgr, err := newManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	return tui.Run(tui.Options{
		Manager: mgr,
		Scope:   scope,
		Depth:   resolveDepth(cmd),
	})
}
