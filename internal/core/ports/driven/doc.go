// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialBackend: Per-account credential/config snapshot storage
//   - TokenSlot: The single active-token entry for token accounts
//   - RegistryStore: sequence.json persistence with atomic replace
//   - HostState: Claude Code's live credential/config files
//   - Locker: Cross-process advisory locking for mutating operations
//   - ConfigStore: Tool configuration (config.toml)
//
// The CredentialBackend has two platform variants (secure store and
// filesystem) selected once at process start, never branched on inside
// core.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
