package storage

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func newViper(t *testing.T, toml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(toml)); err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	return v
}

func TestLoadStorageConfigs(t *testing.T) {
	v := newViper(t, `
[[storages]]
name = "public"
type = "local"
enable = true
web_root = "/srv/www"
content_root = "/srv/app"
detect_ext = true

[[storages]]
name = "disabled"
type = "local"
enable = false
`)
	configs, err := LoadStorageConfigs(v)
	if err != nil {
		t.Fatalf("LoadStorageConfigs failed: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("got %d configs; want 1 (disabled stores are skipped)", len(configs))
	}
	local, ok := configs[0].(*LocalStorageConfig)
	if !ok {
		t.Fatalf("config is %T; want *LocalStorageConfig", configs[0])
	}
	if local.Name != "public" || local.WebRoot != "/srv/www" || local.ContentRoot != "/srv/app" || !local.DetectExt {
		t.Fatalf("decoded config = %+v", local)
	}
}

func TestLoadStorageConfigs_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown type": `
[[storages]]
name = "s3"
type = "s3"
enable = true
`,
		"no root": `
[[storages]]
name = "empty"
type = "local"
enable = true
`,
		"no name": `
[[storages]]
type = "local"
enable = true
content_root = "data"
`,
		"unknown key": `
[[storages]]
name = "typo"
type = "local"
enable = true
content_root = "data"
webroot = "/srv/www"
`,
	}
	for name, toml := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadStorageConfigs(newViper(t, toml)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestLoadStorageConfigs_TypeIsCaseInsensitive(t *testing.T) {
	v := newViper(t, `
[[storages]]
name = "upper"
type = "LOCAL"
enable = true
content_root = "data"
detect_ext = "true"
`)
	configs, err := LoadStorageConfigs(v)
	if err != nil {
		t.Fatalf("LoadStorageConfigs failed: %v", err)
	}
	local := configs[0].(*LocalStorageConfig)
	if local.Type != "LOCAL" || local.GetType() != "local" || !local.DetectExt {
		t.Fatalf("decoded config = %+v", local)
	}
}

func TestLoadStorageConfigs_ErrorNamesEntry(t *testing.T) {
	v := newViper(t, `
[[storages]]
name = "ok"
type = "local"
enable = true
content_root = "data"

[[storages]]
name = "bad"
type = "ftp"
enable = true
`)
	_, err := LoadStorageConfigs(v)
	if err == nil {
		t.Fatalf("expected an error")
	}
	for _, want := range []string{"#1", "bad", "ftp", "local"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
