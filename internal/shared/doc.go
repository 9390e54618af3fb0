// Package shared provides common utilities used across the codebase.
// It serves as a central location for functionality that doesn't belong
// to any specific domain or architectural layer.
//
// # Structure
//
// - testutil: testing utilities, including the buffered slog handler
//   and log assertions used by package tests
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helper functions with no domain-specific logic
//
// It should NOT contain business logic, domain-specific code, or
// circular dependencies with other internal packages.
package shared
