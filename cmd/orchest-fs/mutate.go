package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allansene/orchest/pkg/filesvc"
	"github.com/allansene/orchest/pkg/manager"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory in a root namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		return runMutation(cmd, func(mgr *manager.Manager, root string) error {
			return mgr.Create(cmd.Context(), root, path)
		})
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <path>",
	Short: "Create an empty file in a root namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if strings.HasSuffix(path, "/") {
			return fmt.Errorf("%q names a directory; use mkdir", path)
		}
		return runMutation(cmd, func(mgr *manager.Manager, root string) error {
			return mgr.Create(cmd.Context(), root, path)
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or directory from a root namespace",
	Long: `Delete the node at the given path. Deleting a directory removes
its entire subtree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, func(mgr *manager.Manager, root string) error {
			return mgr.Delete(cmd.Context(), root, args[0])
		})
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <source> <destination>",
	Short: "Move a file or directory, possibly across roots",
	Long: `Move the node at source to destination. The destination root
defaults to the source root; use --dest-root to move between namespaces.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		destRoot, _ := cmd.Flags().GetString("dest-root")
		return runMutation(cmd, func(mgr *manager.Manager, root string) error {
			if destRoot == "" {
				destRoot = root
			}
			return mgr.Move(cmd.Context(), filesvc.MoveRequest{
				SourceRoot:      root,
				SourcePath:      args[0],
				DestinationRoot: destRoot,
				DestinationPath: args[1],
			})
		})
	},
}

func init() {
	mvCmd.Flags().String("dest-root", "", "destination root namespace (default: source root)")
	rootCmd.AddCommand(mkdirCmd, touchCmd, rmCmd, mvCmd)
}

// runMutation wires up scope, manager and logging for the single-target
// mutation commands.
func runMutation(cmd *cobra.Command, fn func(mgr *manager.Manager, root string) error) error {
	if err := setupLogging(); err != nil {
		return err
	}
	scope, err := requireScope()
	if err != nil {
		return err
	}
	mgr, err := newManager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	// Materialize the tree first so the local mutation has a map to
	// land in and the remote call runs under the right scope.
	if _, err := mgr.Init(cmd.Context(), resolveDepth(cmd), scope); err != nil {
		return err
	}

	root, _ := cmd.Flags().GetString("root")
	return fn(mgr, root)
}
