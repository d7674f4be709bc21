package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
	"github.com/krau/filekit/bootstrap"
	"github.com/krau/filekit/filestore"
	"github.com/krau/filekit/storage"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "delete a file",
	Args:  cobra.ExactArgs(1),
	RunE: withStorage(func(ctx context.Context, cmd *cobra.Command, stor storage.Storage, args []string) error {
		if !stor.Delete(ctx, args[0]) {
			return fmt.Errorf("%s was not deleted", args[0])
		}
		return nil
	}),
}

var existsCmd = &cobra.Command{
	Use:   "exists <path>",
	Short: "report whether a file exists",
	Args:  cobra.ExactArgs(1),
	RunE: withStorage(func(ctx context.Context, cmd *cobra.Command, stor storage.Storage, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), stor.Exists(ctx, args[0]))
		return nil
	}),
}

var mvCmd = &cobra.Command{
	Use:   "mv <source> <destination>",
	Short: "move a file, replacing the destination",
	Args:  cobra.ExactArgs(2),
	RunE: withStorage(func(ctx context.Context, cmd *cobra.Command, stor storage.Storage, args []string) error {
		if !stor.Move(ctx, args[0], args[1]) {
			return fmt.Errorf("failed to move %s to %s", args[0], args[1])
		}
		return nil
	}),
}

var downloadCmd = &cobra.Command{
	Use:   "download <path>",
	Short: "write a file's content to stdout or --output",
	Args:  cobra.ExactArgs(1),
	RunE: withStorage(func(ctx context.Context, cmd *cobra.Command, stor storage.Storage, args []string) error {
		data, err := stor.Download(ctx, args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %s (%s)\n", out, humanize.Bytes(uint64(len(data))))
		return nil
	}),
}

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "print file metadata",
	Args:  cobra.ExactArgs(1),
	RunE: withStorage(func(ctx context.Context, cmd *cobra.Command, stor storage.Storage, args []string) error {
		extraRaw, _ := cmd.Flags().GetString("extra")
		format, _ := cmd.Flags().GetString("format")

		var extra any
		if extraRaw != "" {
			if err := json.Unmarshal([]byte(extraRaw), &extra); err != nil {
				return fmt.Errorf("invalid --extra: %w", err)
			}
		}
		rec, err := filestore.GetInfo(ctx, stor, args[0], extra)
		if err != nil {
			return err
		}
		return printRecord(cmd, rec, format)
	}),
}

func init() {
	downloadCmd.Flags().StringP("output", "o", "", "output file path")
	infoCmd.Flags().String("extra", "", "JSON value attached to the printed record")
	infoCmd.Flags().StringP("format", "f", "json", "output format (json, yaml)")

	rootCmd.AddCommand(rmCmd, existsCmd, mvCmd, downloadCmd, infoCmd)
}

func printRecord(cmd *cobra.Command, rec *filestore.FileRecord[any], format string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(rec, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(rec)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

type storageRunE func(ctx context.Context, cmd *cobra.Command, stor storage.Storage, args []string) error

func withStorage(fn storageRunE) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cleanup, err := bootstrap.InitAll(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		name, _ := cmd.Flags().GetString("store")
		stor, err := storage.Resolve(ctx, name)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, stor, args)
	}
}
