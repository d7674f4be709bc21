package bootstrap

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/krau/filekit/config"
	"github.com/krau/filekit/logger"
	"github.com/spf13/cobra"
)

// InitAll loads the config named by the --config flag and returns a context carrying the configured
// logger. The returned func releases the log file.
func InitAll(cmd *cobra.Command) (context.Context, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.Init(ctx, config.GetConfigFile(cmd)); err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, closeLog, err := logger.New(config.C().Log)
	if err != nil {
		return nil, nil, err
	}
	log.SetDefault(l)
	cleanup := func() {
		if err := closeLog(); err != nil {
			l.Error("Failed to close log file", "err", err)
		}
	}
	return log.WithContext(ctx, l), cleanup, nil
}
