package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ccswitch/internal/core/ports/driven"
)

// Ensure HostState implements the interface.
var _ driven.HostState = (*HostState)(nil)

// HostState is an in-memory stand-in for the host application's live
// credential and config state.
type HostState struct {
	mu sync.RWMutex

	// Credentials and Config are the live blobs.
	Credentials []byte
	Config      []byte

	// Email and UUID mimic the oauthAccount fields of the live config.
	Email string
	UUID  string

	// EnvToken mimics a set token environment variable.
	EnvToken bool

	// CredsErr, when set, is returned by ReadCredentials.
	CredsErr error

	// ConfigErr, when set, is returned by ReadConfig.
	ConfigErr error
}

// NewHostState creates a new in-memory host state.
func NewHostState() *HostState {
	return &HostState{}
}

// ReadCredentials returns the live credential blob.
func (h *HostState) ReadCredentials(_ context.Context) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.CredsErr != nil {
		return nil, h.CredsErr
	}
	return append([]byte(nil), h.Credentials...), nil
}

// WriteCredentials replaces the live credential blob.
func (h *HostState) WriteCredentials(_ context.Context, blob []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Credentials = append([]byte(nil), blob...)
	return nil
}

// ReadConfig returns the live config document.
func (h *HostState) ReadConfig(_ context.Context) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.ConfigErr != nil {
		return nil, h.ConfigErr
	}
	return append([]byte(nil), h.Config...), nil
}

// WriteConfig replaces the live config document.
func (h *HostState) WriteConfig(_ context.Context, blob []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Config = append([]byte(nil), blob...)
	return nil
}

// CurrentEmail returns the configured email.
func (h *HostState) CurrentEmail() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.Email
}

// CurrentUUID returns the configured UUID.
func (h *HostState) CurrentUUID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.UUID
}

// HasEnvToken reports the configured env-token flag.
func (h *HostState) HasEnvToken() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.EnvToken
}
