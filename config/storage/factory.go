package storage

import (
	"fmt"
	"strings"

	storenum "github.com/krau/filekit/pkg/enums/storage"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var configBuilders = map[storenum.StorageType]func() StorageConfig{
	storenum.Local: func() StorageConfig { return new(LocalStorageConfig) },
}

// decodeStorageConfig turns the shared keys of one [[storages]] entry into its typed config. Keys the
// typed config does not know are rejected so that typos such as "webroot" fail at startup.
func decodeStorageConfig(raw BaseConfig) (StorageConfig, error) {
	if raw.Name == "" {
		return nil, ErrStorageNameRequired
	}
	st, err := storenum.ParseStorageType(raw.Type)
	if err != nil {
		return nil, err
	}
	build, ok := configBuilders[st]
	if !ok {
		return nil, fmt.Errorf("unsupported storage type %q, supported: %s", raw.Type, strings.Join(storenum.StorageTypeNames(), ", "))
	}

	cfg := build()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw.RawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode %s storage config: %w", st, err)
	}
	*cfg.base() = raw

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStorageConfigs decodes every enabled entry under "storages". Disabled entries are skipped
// without being decoded.
func LoadStorageConfigs(v *viper.Viper) ([]StorageConfig, error) {
	var entries []BaseConfig
	if err := v.UnmarshalKey("storages", &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal storage configs: %w", err)
	}

	configs := make([]StorageConfig, 0, len(entries))
	for i, entry := range entries {
		if !entry.Enable {
			continue
		}
		cfg, err := decodeStorageConfig(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid storage config #%d (%s): %w", i, entry.Name, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
