package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/CBx0-dev/YAJE/internal/build"
	"github.com/CBx0-dev/YAJE/internal/config"
	"github.com/CBx0-dev/YAJE/internal/logging"
	"github.com/CBx0-dev/YAJE/internal/toolchain"
)

var buildCmd = &cobra.Command{
	Use:          "build [project]",
	Short:        "Build the project into a standalone executable",
	Long:         `Bundle the managed sources, compile every native module and link the final executable.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runBuild,
	SilenceUsage: true,
}

func runBuild(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) == 1 {
		projectDir = args[0]
	}

	cfg, err := config.NewLoader().LoadForProject(cmd, projectDir)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Verbose, cfg.LogFormat, os.Stderr)
	tc := toolchain.New(cfg.ClangPath, cfg.ArPath, nil)

	driver := build.NewDriver(tc, cfg.Triple, log)
	if _, err := driver.Run(cmd.Context(), projectDir); err != nil {
		log.Error("build failed", "error", err)
		return err
	}

	return nil
}
