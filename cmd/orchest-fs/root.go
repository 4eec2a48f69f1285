package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allansene/orchest/pkg/config"
	"github.com/allansene/orchest/pkg/filesvc"
	"github.com/allansene/orchest/pkg/logging"
	"github.com/allansene/orchest/pkg/manager"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "orchest-fs",
		Short: "Browse and manage Orchest project file trees",
		Long: `orchest-fs maintains a local, lazily expanded view of the file
namespaces of an Orchest project and keeps it in sync with the remote
file-management service.

By default, orchest-fs launches an interactive TUI to browse the trees.
The subcommands offer a scriptable surface over the same cache.

Examples:
  orchest-fs --project <uuid>                   # Browse interactively
  orchest-fs ls --project <uuid> /lib/          # List a directory
  orchest-fs mkdir --project <uuid> /models/    # Create a directory
  orchest-fs mv --project <uuid> /a.py /lib/a.py
  orchest-fs config show                        # Show configuration`,
		Args: cobra.NoArgs,
		RunE: runBrowse,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/orchest/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "base URL of the file-management API")
	rootCmd.PersistentFlags().StringP("project", "p", "", "project UUID (mandatory for remote operations)")
	rootCmd.PersistentFlags().String("pipeline", "", "pipeline UUID")
	rootCmd.PersistentFlags().String("job", "", "job UUID")
	rootCmd.PersistentFlags().String("run", "", "run UUID")
	rootCmd.PersistentFlags().String("snapshot", "", "snapshot UUID")
	rootCmd.PersistentFlags().StringP("root", "r", "project-dir", "root namespace to operate on")
	rootCmd.PersistentFlags().IntP("depth", "d", 0, "directory levels to materialize (0=config default)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("scope.project_uuid", rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("scope.pipeline_uuid", rootCmd.PersistentFlags().Lookup("pipeline"))
	_ = viper.BindPFlag("scope.job_uuid", rootCmd.PersistentFlags().Lookup("job"))
	_ = viper.BindPFlag("scope.run_uuid", rootCmd.PersistentFlags().Lookup("run"))
	_ = viper.BindPFlag("scope.snapshot_uuid", rootCmd.PersistentFlags().Lookup("snapshot"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "orchest"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "orchest"))
		}
	}

	viper.SetEnvPrefix("ORCHEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupLogging initializes logging from the resolved configuration.
func setupLogging() error {
	level := viper.GetString("logging.level")
	if viper.GetBool("verbose") {
		level = "debug"
	}
	return logging.Init(logging.Config{
		Level: level,
		Path:  viper.GetString("logging.path"),
	})
}

// newManager builds the remote client and cache manager from the resolved
// configuration.
func newManager() (*manager.Manager, error) {
	client, err := filesvc.NewClient(viper.GetString("api_url"), viper.GetDuration("request_timeout"))
	if err != nil {
		return nil, fmt.Errorf("configuring file-service client: %w", err)
	}
	return manager.New(client, manager.Options{
		Roots:        viper.GetStringSlice("roots"),
		DefaultDepth: viper.GetInt("default_depth"),
		DedupeWindow: viper.GetDuration("dedupe_window"),
	}), nil
}

// resolveDepth returns the --depth flag value or the configured default.
func resolveDepth(cmd *cobra.Command) int {
	depth, _ := cmd.Flags().GetInt("depth")
	if depth <= 0 {
		depth = viper.GetInt("default_depth")
	}
	return depth
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
