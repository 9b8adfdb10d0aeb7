package services

import (
	"time"

	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// SettingsService provides typed access to the optional config.toml
// knobs. Unset or invalid keys fall back to defaults.
type SettingsService struct {
	store driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the current settings merged over defaults.
func (s *SettingsService) Get() *domain.AppSettings {
	settings := domain.DefaultAppSettings()
	if s.store == nil {
		return settings
	}

	if ms := s.store.GetInt("lock.timeout_ms"); ms > 0 {
		settings.Lock.Timeout = time.Duration(ms) * time.Millisecond
	}
	if p := s.store.GetString("host.config_path"); p != "" {
		settings.Host.ConfigPath = p
	}
	if p := s.store.GetString("host.credentials_path"); p != "" {
		settings.Host.CredentialsPath = p
	}
	return settings
}
