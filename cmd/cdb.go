package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CBx0-dev/YAJE/internal/cdb"
	"github.com/CBx0-dev/YAJE/internal/config"
	"github.com/CBx0-dev/YAJE/internal/logging"
)

var cdbCmd = &cobra.Command{
	Use:          "cdb [project]",
	Short:        "Emit a clang compilation database",
	Long:         `Write compile_commands.json covering every native translation unit of the project.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runCdb,
	SilenceUsage: true,
}

func init() {
	cdbCmd.Flags().StringP("out", "o", "", "Output path (default <project>/compile_commands.json)")
}

func runCdb(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) == 1 {
		projectDir = args[0]
	}

	cfg, err := config.NewLoader().LoadForProject(cmd, projectDir)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Verbose, cfg.LogFormat, os.Stderr)

	entries, err := cdb.Generate(projectDir, cfg.ClangPath, cfg.Triple, log)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(projectDir, "compile_commands.json")
	}

	if err := cdb.Write(entries, out); err != nil {
		return err
	}

	log.Info("compilation database written", "path", out, "entries", len(entries))
	return nil
}
