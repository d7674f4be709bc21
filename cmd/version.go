package cmd

import (
	"fmt"
	"runtime"

	"github.com/krau/filekit/config"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Print the version number of filekit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("filekit version: %s %s/%s\nBuildTime: %s, Commit: %s\n", config.Version, runtime.GOOS, runtime.GOARCH, config.BuildTime, config.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(VersionCmd)
}
