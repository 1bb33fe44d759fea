package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls <source> [path]",
	Short: "List the children of a directory or archive",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().Bool("zip", false, "Treat the source as a ZIP container")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
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

	rel := ""
	if len(args) == 2 {
		rel = args[1]
	}

	obj, err := resolve(root, rel)
	if err != nil {
		return err
	}
	dir, err := obj.AsDir()
	if err != nil {
		return err
	}

	children, err := dir.Children()
	if err != nil {
		return err
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})

	out := cmd.OutOrStdout()
	for _, child := range children {
		if child.IsDir() {
			fmt.Fprintf(out, "%12s  %s/\n", "-", child.Name())
			continue
		}
		file, err := child.AsFile()
		if err != nil {
			return err
		}
		size, err := file.Size()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%12d  %s\n", size, child.Name())
	}
	return nil
}
