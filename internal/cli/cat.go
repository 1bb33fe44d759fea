package cli

import (
	"io"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <source> <path>",
	Short: "Write a file's content to stdout",
	Args:  cobra.ExactArgs(2),
	RunE:  runCat,
}

func init() {
	catCmd.Flags().Bool("zip", false, "Treat the source as a ZIP container")
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyLogging(cmd, cfg)

	asZip, _ := cmd.Flags().GetBool("zip")
	root, err := openRoot(args[0], asZip)
	if err != nil {
		return err
	}

	obj, err := resolve(root, args[1])
	if err != nil {
		return err
	}
	file, err := obj.AsFile()
	if err != nil {
		return err
	}

	if cfg.BufferSize > 0 {
		file.SetBufferSize(cfg.BufferSize)
	}
	if err := file.Open(); err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(cmd.OutOrStdout(), file)
	return err
}
