package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"unifs/internal/mount"

	"github.com/spf13/cobra"
)

var mountCmd = &cobra.Command{
	Use:   "mount <source> <mountpoint>",
	Short: "Mount a directory or archive read-only",
	Long: `Mount serves the source through FUSE until interrupted. Physical
directories are browsed live; ZIP containers appear as a flat directory of
their file entries.`,
	Args: cobra.ExactArgs(2),
	RunE: runMount,
}

func init() {
	mountCmd.Flags().Bool("zip", false, "Treat the source as a ZIP container")
	rootCmd.AddCommand(mountCmd)
}

func runMount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyLogging(cmd, cfg)

	source, mountPoint := args[0], args[1]
	asZip, _ := cmd.Flags().GetBool("zip")

	root, err := openRoot(source, asZip)
	if err != nil {
		return err
	}

	server := mount.NewServer(root)
	if err := server.Mount(mountPoint); err != nil {
		return err
	}

	logger.Info("Serving %s at %s, press Ctrl-C to unmount", source, mountPoint)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := server.Unmount(mountPoint); err != nil {
		return fmt.Errorf("unmount failed: %w", err)
	}
	return nil
}
