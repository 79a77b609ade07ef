// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rulemate.
//
// Configuration is TOML with sensible defaults, RULEMATE_* environment
// variable overrides, and validation. The config file can be watched for
// changes so edits apply without restarting.
//
// Configuration file location (in order of precedence):
//   - ~/.rulemate/config.toml
//   - Built-in defaults
package config
