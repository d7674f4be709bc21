package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "config file path")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "also write logs to this file")

	flags.Bool("api-enable", false, "enable the HTTP API")
	flags.Int("api-port", 0, "HTTP API port")
	flags.String("api-token", "", "HTTP API bearer token")

	bindFlags(cmd)
}

func bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.file", flags.Lookup("log-file"))

	viper.BindPFlag("api.enable", flags.Lookup("api-enable"))
	viper.BindPFlag("api.port", flags.Lookup("api-port"))
	viper.BindPFlag("api.token", flags.Lookup("api-token"))
}

func GetConfigFile(cmd *cobra.Command) string {
	configFile, _ := cmd.Flags().GetString("config")
	return configFile
}
