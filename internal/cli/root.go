// Package cli implements the unifs command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"unifs/internal/config"
	"unifs/internal/logging"
	"unifs/internal/vfs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logger = logging.GetLogger()

var rootCmd = &cobra.Command{
	Use:   "unifs",
	Short: "Browse and mount directory trees and ZIP containers uniformly",
	Long: `unifs gives physical directory trees and ZIP containers one filesystem
surface: list them, read files out of them, or mount them read-only.

Archives are served through seek emulation over their forward-only entry
streams, so seeking and partial reads work the same way they do on plain
files.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	// A .env next to the invocation can carry UNIFS_LOG_LEVEL and friends.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default ./"+config.DefaultFileName+")")
}

// loadConfig resolves the config for a command invocation: the explicit
// --config path, the default file if present, or plain defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = config.DefaultFileName
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, config.ErrConfigNotFound) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// applyLogging configures the logger from the config and the verbose flag.
func applyLogging(cmd *cobra.Command, cfg *config.Config) {
	if level, ok := logging.ParseLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		logger.SetLevel(logging.LevelDebug)
	}
}

// openRoot opens the given source as a directory node: a ZIP container when
// asZip is set, otherwise a physical directory tree.
func openRoot(source string, asZip bool) (vfs.Directory, error) {
	if asZip {
		logger.Debug("Opening %q as a ZIP container", source)
		return vfs.OpenZipDirectory(source)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("cannot open source %s: %w", source, err)
	}
	if !info.IsDir() {
		// A plain file argument is treated as an archive.
		logger.Debug("Source %q is a file, opening as a ZIP container", source)
		return vfs.OpenZipDirectory(source)
	}
	return vfs.NewPhysicalDirectory(source), nil
}
