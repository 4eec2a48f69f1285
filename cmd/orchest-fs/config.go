package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allansene/orchest/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage orchest-fs configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/orchest/config.yaml (if set)
  2. ~/.config/orchest/config.yaml

Environment variables can override config file settings using the ORCHEST_
prefix:
  ORCHEST_API_URL=http://orchest.internal/async/file-management
  ORCHEST_DEFAULT_DEPTH=3`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		return err
	}

	fmt.Printf("api_url:         %s\n", cfg.APIURL)
	fmt.Printf("request_timeout: %s\n", cfg.RequestTimeout)
	fmt.Printf("roots:           %v\n", cfg.Roots)
	fmt.Printf("default_depth:   %d\n", cfg.DefaultDepth)
	fmt.Printf("dedupe_window:   %s\n", cfg.DedupeWindow)
	fmt.Printf("logging.level:   %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:    %s\n", cfg.Logging.Path)
	fmt.Printf("state dir:       %s\n", config.StateDir())

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Printf("\nLoaded from: %s\n", used)
	} else {
		fmt.Println("\nNo config file found; using defaults.")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}
	fmt.Printf("Config file: %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Println(used)
		return nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(filepath.Join(dir, "config.yaml") + " (not created yet)")
	return nil
}
