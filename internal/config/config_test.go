// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory and every override at empty values.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		"CHATPDF_DEST", "CHATPDF_OPEN", "CHATPDF_LOCALE",
		"CHATPDF_FONT_REGULAR", "CHATPDF_FONT_BOLD",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestConfig_Default(t *testing.T) {
	home := isolate(t)
	cfg := Default()

	assert.Equal(t, filepath.Join(home, "Desktop"), cfg.Output.Dest)
	assert.Equal(t, "ChatPDF", cfg.Output.Subdir)
	assert.Equal(t, "(EMOJI)", cfg.Format.Placeholder)
	assert.Equal(t, "https://t.me/", cfg.Format.ProfileBaseURL)
	assert.True(t, cfg.History.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Desktop"), cfg.Output.Dest)
}

func TestLoad_TOMLPrecedesJSON(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".chatpdf", "config.toml"), "[output]\nsubdir = \"FromTOML\"\n")
	writeFile(t, filepath.Join(home, ".chatpdf", "config.json"), `{"output": {"subdir": "FromJSON"}}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "FromTOML", cfg.Output.Subdir)
}

func TestLoad_BrokenFileFallsBackWithError(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".chatpdf", "config.toml"), "[output\n")

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultSubdir, cfg.Output.Subdir)
}

func TestLoadFromPath_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "c.toml", "[output]\nsubdir = \"Chats\"\n[format]\nlocale = \"ru\"\n[watch]\ndebounce_ms = 900\n"},
		{"json", "c.json", `{"output": {"subdir": "Chats"}, "format": {"locale": "ru"}, "watch": {"debounce_ms": 900}}`},
		{"yaml", "c.yaml", "output:\n  subdir: Chats\nformat:\n  locale: ru\nwatch:\n  debounce_ms: 900\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			cfg, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, "Chats", cfg.Output.Subdir)
			assert.Equal(t, "ru", cfg.Format.Locale)
			assert.Equal(t, 900, cfg.Watch.DebounceMs)
			assert.Equal(t, DefaultPlaceholder, cfg.Format.Placeholder)
		})
	}
}

func TestLoadFromPath_ExpandsHome(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[output]\ndest = \"~/Documents\"\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Documents"), cfg.Output.Dest)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	font := filepath.Join(t.TempDir(), "Font.ttf")
	writeFile(t, font, "ttf")

	t.Setenv("CHATPDF_DEST", "/srv/out")
	t.Setenv("CHATPDF_OPEN", "yes")
	t.Setenv("CHATPDF_LOCALE", "de_DE.UTF-8")
	t.Setenv("CHATPDF_FONT_REGULAR", font)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/out", cfg.Output.Dest)
	assert.True(t, cfg.Output.OpenAfterExport)
	assert.Equal(t, "de_DE.UTF-8", cfg.ResolvedLocale())
	assert.Equal(t, font, cfg.Fonts.Regular)
}

func TestResolvedLocale_ProcessFallback(t *testing.T) {
	isolate(t)
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_TIME", "")
	t.Setenv("LANG", "uk_UA.UTF-8")

	assert.Equal(t, "uk_UA.UTF-8", Default().ResolvedLocale())
}

func TestConfig_Validate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"subdir with separator", func(c *Config) { c.Output.Subdir = "a/b" }, "output.subdir"},
		{"subdir dotdot", func(c *Config) { c.Output.Subdir = ".." }, "output.subdir"},
		{"relative profile url", func(c *Config) { c.Format.ProfileBaseURL = "t.me/" }, "format.profile_base_url"},
		{"bold without regular", func(c *Config) { c.Fonts.Bold = "/x/Bold.ttf" }, "fonts.bold"},
		{"missing font", func(c *Config) { c.Fonts.Regular = "/nonexistent/Font.ttf" }, "fonts.regular"},
		{"debounce out of range", func(c *Config) { c.Watch.DebounceMs = 70000 }, "watch.debounce_ms"},
		{"negative depth", func(c *Config) { c.Input.MaxDepth = -1 }, "input.max_depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestConfig_GetSet(t *testing.T) {
	isolate(t)
	cfg := Default()

	require.NoError(t, cfg.Set("output.subdir", "Archive"))
	require.NoError(t, cfg.Set("watch.debounce_ms", "250"))
	require.NoError(t, cfg.Set("output.open_after_export", "true"))
	require.NoError(t, cfg.Set("format.profile_base_url", "https://example.org/u/"))

	v, err := cfg.Get("output.subdir")
	require.NoError(t, err)
	assert.Equal(t, "Archive", v)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
	assert.True(t, cfg.Output.OpenAfterExport)
	assert.Equal(t, "https://example.org/u/", cfg.Format.ProfileBaseURL)

	_, err = cfg.Get("output.nope")
	assert.Error(t, err)
	_, err = cfg.Get("output")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("watch.debounce_ms", "soon"))
}

func TestGetAllKeys_Resolve(t *testing.T) {
	isolate(t)
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Output.Subdir = "Saved"
	cfg.Format.Locale = "fr"

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved", loaded.Output.Subdir)
	assert.Equal(t, "fr", loaded.Format.Locale)
}
