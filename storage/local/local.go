package local

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	config "github.com/krau/filekit/config/storage"
	"github.com/krau/filekit/filestore"
	storenum "github.com/krau/filekit/pkg/enums/storage"
)

type Local struct {
	*filestore.Local
	config config.LocalStorageConfig
}

func (l *Local) Init(ctx context.Context, cfg config.StorageConfig) error {
	localConfig, ok := cfg.(*config.LocalStorageConfig)
	if !ok {
		return fmt.Errorf("failed to cast local config")
	}
	if err := localConfig.Validate(); err != nil {
		return err
	}
	l.config = *localConfig

	store, err := filestore.NewLocal(filestore.LocalConfig{
		WebRoot:     localConfig.WebRoot,
		ContentRoot: localConfig.ContentRoot,
		DetectExt:   localConfig.DetectExt,
	}, log.FromContext(ctx).WithPrefix(fmt.Sprintf("local[%s]", l.config.Name)))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(store.Root(), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create local storage directory: %w", err)
	}
	l.Local = store
	return nil
}

func (l *Local) Type() storenum.StorageType {
	return storenum.Local
}

func (l *Local) Name() string {
	return l.config.Name
}
