package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/allansene/orchest/pkg/filetree"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory of a root namespace",
	Long: `List the contents of a directory in one of the cached root
namespaces. Without a path, the whole materialized tree of the root is
printed down to the requested depth.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().StringSlice("ext", nil, "only list files with these extensions (e.g. .py,.ipynb)")
	lsCmd.Flags().Bool("long", false, "include entry freshness")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
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

	root, _ := cmd.Flags().GetString("root")
	exts, _ := cmd.Flags().GetStringSlice("ext")
	long, _ := cmd.Flags().GetBool("long")

	if _, err := mgr.Init(cmd.Context(), resolveDepth(cmd), scope); err != nil {
		return err
	}

	dir := "/"
	if len(args) == 1 {
		dir = filetree.ContainingDirectory(args[0])
		if err := mgr.Expand(cmd.Context(), root, dir); err != nil {
			return err
		}
	}

	fm, ok := mgr.Map(root)
	if !ok {
		return fmt.Errorf("root %q is not available under this scope", root)
	}

	for _, path := range fm.Paths() {
		if path == "/" {
			continue
		}
		if len(args) == 1 && !strings.HasPrefix(path, dir) {
			continue
		}
		if !matchExt(path, exts) {
			continue
		}
		if long {
			entry, _ := fm.Get(path)
			fmt.Printf("%-60s fetched %s\n", path, humanize.Time(entry.FetchedAt))
		} else {
			fmt.Println(path)
		}
	}
	return nil
}

// matchExt reports whether a path passes the extension filter. Directories
// always pass so the listing keeps its shape.
func matchExt(path string, exts []string) bool {
	if len(exts) == 0 || filetree.IsDirectory(path) {
		return true
	}
	for _, ext := range exts {
		if strings.HasSuffix(path, strings.TrimSpace(ext)) {
			return true
		}
	}
	return false
}
