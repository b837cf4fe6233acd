// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that merges multiple
// sources using koanf as the underlying library.
//
// Features:
//
//   - Sources: YAML file, ZFS_TOOL_* environment variables, flag overrides
//   - Type Safety: Unmarshaling into typed structs with koanf tags
//   - Defaults: values already present in the target struct are kept
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Default values
package confloader
