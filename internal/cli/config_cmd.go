// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeranaias/chatpdf/internal/config"
	"github.com/jeranaias/chatpdf/internal/util"
)

// HandleConfig shows and edits the configuration.
//
// Usage:
//
//	chatpdf config [show]          Print the effective configuration
//	chatpdf config get KEY         Print one value
//	chatpdf config set KEY VALUE   Change one value and save
//	chatpdf config init            Write a default config file
//	chatpdf config path            Print the config file path
//	chatpdf config keys            List the keys
func HandleConfig(app *App, p *ArgParser) error {
	switch p.Subcommand() {
	case "", "show":
		fmt.Fprintln(app.Out, app.Config.String())
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "chatpdf config get output.dest")
		}
		value, err := app.Config.Get(key)
		if err != nil {
			return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "chatpdf config keys"}
		}
		fmt.Fprintln(app.Out, value)
		return nil

	case "set":
		key, value := p.Positional(1), strings.Join(p.PositionalFrom(2), " ")
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "chatpdf config set format.locale ru_RU")
		}
		updated := *app.Config
		if err := updated.Set(key, value); err != nil {
			return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "chatpdf config keys"}
		}
		if err := updated.Validate(); err != nil {
			return fmt.Errorf("config set %s: %w", key, err)
		}
		*app.Config = updated
		path, err := saveConfig(app)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "%s %s = %s\n", RenderConditional(SuccessStyle, "Saved"), key, value)
		fmt.Fprintln(app.Out, RenderConditional(DimStyle, path))
		return nil

	case "init":
		path, err := configFilePath(app)
		if err != nil {
			return err
		}
		if util.Exists(path) && !p.BoolFlag("force") {
			return NewCommandError("config", "init", "file exists (use --force to overwrite)", nil)
		}
		if err := writeConfig(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(app.Out, "%s %s\n", RenderConditional(SuccessStyle, "Created"), path)
		return nil

	case "path":
		path, err := configFilePath(app)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.Out, path)
		return nil

	case "keys":
		for _, key := range config.GetAllKeys() {
			value, _ := app.Config.Get(key)
			fmt.Fprintf(app.Out, "%s %v\n", RenderLabel(key, 26), value)
		}
		return nil

	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   p.Subcommand(),
			Reason:  "unknown config subcommand",
			Example: "chatpdf config [show|get|set|init|path|keys]",
		}
	}
}

// configFilePath returns the file config changes are written to: the
// --config path when it is TOML, otherwise ~/.chatpdf/config.toml.
func configFilePath(app *App) (string, error) {
	if app.ConfigPath != "" {
		path := config.ExpandPath(app.ConfigPath)
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" && ext != "" {
			return "", &ValidationError{
				Field:  "--config",
				Value:  app.ConfigPath,
				Reason: "only TOML config files can be written",
			}
		}
		return path, nil
	}
	return config.ConfigPathTOML()
}

func saveConfig(app *App) (string, error) {
	path, err := configFilePath(app)
	if err != nil {
		return "", err
	}
	if app.ConfigPath == "" {
		if err := config.Save(app.Config); err != nil {
			return "", NewCommandError("config", "save", path, err)
		}
		return path, nil
	}
	return path, writeConfig(app.Config, path)
}

func writeConfig(cfg *config.Config, path string) error {
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "save", path, err)
	}
	return nil
}
