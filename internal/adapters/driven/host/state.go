// Package host adapts Claude Code's live on-disk and in-keychain state
// to the HostState port. It is the only package that touches files
// owned by Claude Code itself.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/zalando/go-keyring"

	"github.com/custodia-labs/ccswitch/internal/adapters/driven/file"
	"github.com/custodia-labs/ccswitch/internal/core/domain"
	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
	"github.com/custodia-labs/ccswitch/internal/platform"
)

// liveCredentialService is the keychain item Claude Code keeps its own
// OAuth credentials in on macOS.
const liveCredentialService = "Claude Code-credentials"

// State implements driven.HostState for a detected platform.
type State struct {
	configPath string
	credsPath  string
	secure     bool
}

var _ driven.HostState = (*State)(nil)

// New builds a host state adapter. Empty settings paths fall back to
// Claude Code's default locations under the home directory.
func New(settings domain.HostSettings, plat platform.Platform) (*State, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	configPath := settings.ConfigPath
	if configPath == "" {
		configPath = ResolveConfigPath(home)
	}
	credsPath := settings.CredentialsPath
	if credsPath == "" {
		credsPath = filepath.Join(home, ".claude", ".credentials.json")
	}

	return &State{
		configPath: configPath,
		credsPath:  credsPath,
		secure:     plat.UsesSecureStore(),
	}, nil
}

// ResolveConfigPath picks the live config file. Newer Claude Code
// versions keep it under ~/.claude/; older ones at the home root. The
// nested file wins only when it actually carries account state.
func ResolveConfigPath(home string) string {
	nested := filepath.Join(home, ".claude", ".claude.json")
	if blob, err := os.ReadFile(nested); err == nil {
		var doc map[string]json.RawMessage
		if json.Unmarshal(blob, &doc) == nil {
			if _, ok := doc["oauthAccount"]; ok {
				return nested
			}
		}
	}
	return filepath.Join(home, ".claude.json")
}

// ConfigPath returns the resolved live config location.
func (s *State) ConfigPath() string { return s.configPath }

// CredentialsPath returns the resolved live credentials location. On
// macOS it is unused; credentials live in the keychain.
func (s *State) CredentialsPath() string { return s.credsPath }

func (s *State) ReadCredentials(_ context.Context) ([]byte, error) {
	if s.secure {
		username := currentUsername()
		val, err := keyring.Get(liveCredentialService, username)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("%w: keychain item %s", domain.ErrBackendMissing, liveCredentialService)
			}
			return nil, fmt.Errorf("reading live credentials: %w", err)
		}
		return []byte(val), nil
	}

	blob, err := os.ReadFile(s.credsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBackendMissing, s.credsPath)
		}
		return nil, fmt.Errorf("reading live credentials: %w", err)
	}
	return blob, nil
}

func (s *State) WriteCredentials(_ context.Context, blob []byte) error {
	if s.secure {
		username := currentUsername()
		if err := keyring.Set(liveCredentialService, username, string(blob)); err != nil {
			return fmt.Errorf("%w: keychain set %s: %v", domain.ErrBackendWrite, liveCredentialService, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.credsPath), 0o700); err != nil {
		return wrapWriteErr(err)
	}
	if err := file.AtomicWrite(s.credsPath, blob, 0o600); err != nil {
		return wrapWriteErr(err)
	}
	return nil
}

func (s *State) ReadConfig(_ context.Context) ([]byte, error) {
	blob, err := os.ReadFile(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBackendMissing, s.configPath)
		}
		return nil, fmt.Errorf("reading live config: %w", err)
	}
	return blob, nil
}

func (s *State) WriteConfig(_ context.Context, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0o700); err != nil {
		return wrapWriteErr(err)
	}
	if err := file.AtomicWrite(s.configPath, blob, 0o600); err != nil {
		return wrapWriteErr(err)
	}
	return nil
}

// CurrentEmail returns the email of the logged-in account, or "" when
// the live config is absent or has no account section.
func (s *State) CurrentEmail() string {
	return s.oauthAccountField("emailAddress")
}

// CurrentUUID returns the account UUID from the live config, or "".
func (s *State) CurrentUUID() string {
	return s.oauthAccountField("accountUuid")
}

func (s *State) oauthAccountField(field string) string {
	blob, err := os.ReadFile(s.configPath)
	if err != nil {
		return ""
	}
	var doc struct {
		OAuthAccount map[string]any `json:"oauthAccount"`
	}
	if err := json.Unmarshal(blob, &doc); err != nil {
		return ""
	}
	if val, ok := doc.OAuthAccount[field].(string); ok {
		return val
	}
	return ""
}

func (s *State) HasEnvToken() bool {
	return os.Getenv(domain.TokenEnvVar) != ""
}

func currentUsername() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func wrapWriteErr(err error) error {
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %v", domain.ErrPermission, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrBackendWrite, err)
}
