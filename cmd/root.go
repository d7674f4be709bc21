package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/krau/filekit/cmd/upload"
	"github.com/krau/filekit/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "filekit",
	Short:         "file storage rooted at a local directory",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.PersistentFlags().StringP("store", "s", "", "storage name, default is the first configured storage")
	upload.Register(rootCmd)
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
