// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatpdf.
//
// Supports TOML, JSON and YAML configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - OutputConfig: Destination root, subdirectory and open-after-export
//   - FormatConfig: Locale, pictograph placeholder and profile links
//   - FontsConfig: TrueType fonts for the PDF renderer
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CHATPDF_*)
//   - ~/.chatpdf/config.toml
//   - ~/.chatpdf/config.json
//   - ~/.chatpdf/config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dest := cfg.Output.Dest
package config
