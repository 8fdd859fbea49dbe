package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
)

// LoadStoreSettings overlays configured values on domain.DefaultStoreSettings.
// A nil config store yields the defaults.
func LoadStoreSettings(cfg driven.ConfigStore) (domain.StoreSettings, error) {
	settings := domain.DefaultStoreSettings()
	if cfg == nil {
		return settings, nil
	}

	if v := cfg.GetString(domain.KeyStorageBackend); v != "" {
		settings.Backend = domain.StorageBackend(v)
	}
	if v := cfg.GetString(domain.KeyStorageDataDir); v != "" {
		settings.DataDir = v
	}
	if v := cfg.GetString(domain.KeyStorageName); v != "" {
		settings.Name = v
	}
	if v := cfg.GetString(domain.KeyStorageStoreName); v != "" {
		settings.StoreName = v
	}
	settings.Verbose = cfg.GetBool(domain.KeyLogVerbose)

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// ParseSetting converts a command-line value for a known configuration key
// into the type stored in the config file.
func ParseSetting(key, raw string) (any, error) {
	switch key {
	case domain.KeyStorageBackend:
		backend := domain.StorageBackend(raw)
		if !backend.IsValid() {
			return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, raw)
		}
		return raw, nil
	case domain.KeyStorageDataDir:
		return raw, nil
	case domain.KeyStorageName, domain.KeyStorageStoreName:
		if raw == "" {
			return nil, fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		return raw, nil
	case domain.KeyLogVerbose:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// SettingKeys lists the configuration keys ParseSetting accepts.
func SettingKeys() []string {
	return []string{
		domain.KeyStorageBackend,
		domain.KeyStorageDataDir,
		domain.KeyStorageName,
		domain.KeyStorageStoreName,
		domain.KeyLogVerbose,
	}
}
