package storage

import (
	"fmt"

	storenum "github.com/krau/filekit/pkg/enums/storage"
)

type LocalStorageConfig struct {
	BaseConfig
	// web_root wins over content_root when both are set
	WebRoot     string `toml:"web_root" mapstructure:"web_root" json:"web_root"`
	ContentRoot string `toml:"content_root" mapstructure:"content_root" json:"content_root"`
	DetectExt   bool   `toml:"detect_ext" mapstructure:"detect_ext" json:"detect_ext"`
}

func (l *LocalStorageConfig) Validate() error {
	if l.WebRoot == "" && l.ContentRoot == "" {
		return fmt.Errorf("web_root or content_root is required for local storage")
	}
	return nil
}

func (l *LocalStorageConfig) GetType() storenum.StorageType {
	return storenum.Local
}

func (l *LocalStorageConfig) GetName() string {
	return l.Name
}
