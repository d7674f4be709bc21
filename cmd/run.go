package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/krau/filekit/api"
	"github.com/krau/filekit/bootstrap"
	"github.com/krau/filekit/config"
	"github.com/krau/filekit/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the configured storages over the HTTP API",
	RunE:  Serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func Serve(cmd *cobra.Command, _ []string) error {
	ctx, cleanup, err := bootstrap.InitAll(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := log.FromContext(ctx)

	if !config.C().API.Enable {
		return fmt.Errorf("api is disabled, set 'api.enable' in the config file or pass --api-enable")
	}
	storage.LoadStorages(ctx)
	if err := api.Init(ctx, config.C().API, storage.Resolve); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("Exiting...")
	return nil
}
