package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/krau/filekit/bootstrap"
	"github.com/krau/filekit/common/utils/ioutil"
	"github.com/krau/filekit/filestore"
	"github.com/krau/filekit/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "upload local files to storage",
	Args:  cobra.MinimumNArgs(1),
	RunE:  Upload,
}

func Register(root *cobra.Command) {
	uploadCmd.Flags().StringP("dir", "d", "", "storage dir to upload to, relative to the storage root")
	uploadCmd.Flags().IntP("jobs", "j", 4, "number of files uploaded at the same time")
	uploadCmd.Flags().Bool("no-progress", false, "disable progress bar")
	root.AddCommand(uploadCmd)
}

func Upload(cmd *cobra.Command, args []string) error {
	dirPath, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}
	storname, err := cmd.Flags().GetString("store")
	if err != nil {
		return err
	}

	ctx, cleanup, err := bootstrap.InitAll(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := log.FromContext(ctx)

	stor, err := storage.Resolve(ctx, storname)
	if err != nil {
		return fmt.Errorf("failed to get storage: %w", err)
	}

	files := make([]filestore.IncomingFile, 0, len(args))
	for _, fp := range args {
		file, err := filestore.FromPath(fp)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", fp, err)
		}
		files = append(files, file)
	}

	out := cmd.OutOrStdout()
	if len(files) == 1 && !noProgress && files[0].Size() > 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		p, err := uploadWithProgress(ctx, stor, files[0], dirPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s -> %s\n", args[0], p)
		return nil
	}

	logger.Info("Uploading files...", "count", len(files), "to", stor.Name(), "dir", dirPath)
	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(jobs, 1))
	for i, file := range files {
		eg.Go(func() error {
			p, err := stor.Upload(egCtx, file, dirPath)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", args[i], err)
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "%s -> %s (%s)\n", args[i], p, humanize.Bytes(uint64(file.Size())))
			return nil
		})
	}
	return eg.Wait()
}

func uploadWithProgress(ctx context.Context, stor storage.Storage, file filestore.IncomingFile, dirPath string) (string, error) {
	progressUI := NewUploadProgress(ctx, file.Name(), file.Size())
	progressUI.Start()

	tracked := filestore.WithReader(file, func(r io.Reader) io.Reader {
		return ioutil.NewProgressReader(r, file.Size(), func(read, total int64) {
			progressUI.UpdateProgress(read)
		})
	})

	p, err := stor.Upload(ctx, tracked, dirPath)
	if err != nil {
		progressUI.SetError(err)
		progressUI.Wait()
		return "", err
	}
	progressUI.Done(p)
	progressUI.Wait()
	return p, nil
}
