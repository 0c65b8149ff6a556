package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CBx0-dev/YAJE/internal/config"
	"github.com/CBx0-dev/YAJE/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "yaje",
	Short:        "Yet Another JavaScript Executable",
	Long:         `Build standalone executables from JavaScript projects with native QuickJS modules`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("target", "t", "", "Target triple to build for (e.g., x86_64-unknown-linux-gnu)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text or json)")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cdbCmd)
	rootCmd.AddCommand(cacheCmd)

	viper.SetDefault("clang_path", config.DefaultClangPath)
	viper.SetDefault("ar_path", config.DefaultArPath)
	viper.SetDefault("log_format", config.DefaultLogFormat)
	viper.SetDefault("verbose", false)
}
