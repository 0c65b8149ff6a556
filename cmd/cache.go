package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CBx0-dev/YAJE/internal/build"
	"github.com/CBx0-dev/YAJE/internal/cache"
	"github.com/CBx0-dev/YAJE/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:          "cache",
	Short:        "Inspect or clear the incremental build cache",
	SilenceUsage: true,
}

var cacheStatsCmd = &cobra.Command{
	Use:          "stats [project]",
	Short:        "Show cache statistics for the current target",
	Args:         cobra.MaximumNArgs(1),
	RunE:         runCacheStats,
	SilenceUsage: true,
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear [project]",
	Short:        "Drop cached objects and hashes for the current target",
	Args:         cobra.MaximumNArgs(1),
	RunE:         runCacheClear,
	SilenceUsage: true,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func cacheOutput(cmd *cobra.Command, args []string) (build.OutputInformation, error) {
	projectDir := "."
	if len(args) == 1 {
		projectDir = args[0]
	}

	cfg, err := config.NewLoader().LoadForProject(cmd, projectDir)
	if err != nil {
		return build.OutputInformation{}, err
	}

	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return build.OutputInformation{}, err
	}

	return build.NewOutputInformation(abs, cfg.Triple), nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	out, err := cacheOutput(cmd, args)
	if err != nil {
		return err
	}

	count := 0
	ledgerPath := filepath.Join(out.CacheFolder, "ledger.db")
	if _, err := os.Stat(ledgerPath); err == nil {
		ledger, err := cache.OpenLedger(ledgerPath)
		if err != nil {
			return err
		}
		defer ledger.Close()

		count, err = ledger.Count()
		if err != nil {
			return err
		}
	}

	var totalSize int64
	filepath.Walk(out.ObjFolder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}

		return nil
	})

	fmt.Printf("Compiled objects: %d\nObject bytes: %d\n", count, totalSize)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	out, err := cacheOutput(cmd, args)
	if err != nil {
		return err
	}

	for _, dir := range []string{out.ObjFolder, out.CacheFolder} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear %s: %w", dir, err)
		}
	}

	return nil
}
