package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CBx0-dev/YAJE/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:          "init [dir]",
	Short:        "Scaffold a new project",
	Args:         cobra.MaximumNArgs(1),
	RunE:         runInit,
	SilenceUsage: true,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	return scaffold.Init(dir)
}
