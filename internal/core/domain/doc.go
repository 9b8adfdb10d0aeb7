// Package domain defines the core business entities for ccswitch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Account: A managed Claude Code account (OAuth or long-lived token)
//   - Registry: The ordered account list plus the active-account marker
//   - AppSettings: Optional tool configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
