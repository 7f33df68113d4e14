// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/chatpdf/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatpdf configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	// Output location and post-export behavior
	Output OutputConfig `toml:"output" json:"output" yaml:"output"`

	// Text and date formatting
	Format FormatConfig `toml:"format" json:"format" yaml:"format"`

	// TrueType fonts for the PDF renderer
	Fonts FontsConfig `toml:"fonts" json:"fonts" yaml:"fonts"`

	// Export discovery for the interactive menu
	Input InputConfig `toml:"input" json:"input" yaml:"input"`

	// Export history ledger
	History HistoryConfig `toml:"history" json:"history" yaml:"history"`

	// Directory watching
	Watch WatchConfig `toml:"watch" json:"watch" yaml:"watch"`
}

// OutputConfig controls where documents are written.
type OutputConfig struct {
	// Dest is the destination root. Default: ~/Desktop
	Dest string `toml:"dest" json:"dest" yaml:"dest"`

	// Subdir is created under Dest to hold per-conversation folders.
	Subdir string `toml:"subdir" json:"subdir" yaml:"subdir"`

	// OpenAfterExport opens new documents in the default viewer.
	OpenAfterExport bool `toml:"open_after_export" json:"open_after_export" yaml:"open_after_export"`
}

// FormatConfig controls text rendering.
type FormatConfig struct {
	// Locale for month names and upper-casing, e.g. "ru_RU.UTF-8".
	// Empty means the process locale (LC_ALL, LC_TIME, LANG).
	Locale string `toml:"locale" json:"locale" yaml:"locale"`

	// Placeholder replaces pictographic characters.
	Placeholder string `toml:"placeholder" json:"placeholder" yaml:"placeholder"`

	// ProfileBaseURL prefixes mention handles.
	ProfileBaseURL string `toml:"profile_base_url" json:"profile_base_url" yaml:"profile_base_url"`

	// UnknownSender attributes messages without a sender.
	UnknownSender string `toml:"unknown_sender" json:"unknown_sender" yaml:"unknown_sender"`
}

// FontsConfig holds TrueType font paths. Without them the renderer falls
// back to a core font limited to Western European text.
type FontsConfig struct {
	Regular string `toml:"regular" json:"regular" yaml:"regular"`
	Bold    string `toml:"bold" json:"bold" yaml:"bold"`
}

// InputConfig controls export discovery.
type InputConfig struct {
	// SearchRoot is scanned for *.json exports. Default: home directory
	SearchRoot string `toml:"search_root" json:"search_root" yaml:"search_root"`

	// MaxDepth limits directory recursion below SearchRoot.
	MaxDepth int `toml:"max_depth" json:"max_depth" yaml:"max_depth"`

	// MaxResults caps the menu length.
	MaxResults int `toml:"max_results" json:"max_results" yaml:"max_results"`
}

// HistoryConfig controls the export ledger.
type HistoryConfig struct {
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path of the sqlite database. Default: ~/.chatpdf/history.db
	Path string `toml:"path" json:"path" yaml:"path"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	// DebounceMs waits for writes to settle before converting.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

const (
	DefaultSubdir         = "ChatPDF"
	DefaultPlaceholder    = "(EMOJI)"
	DefaultProfileBaseURL = "https://t.me/"
	DefaultUnknownSender  = "Unknown"
	DefaultDebounceMs     = 500
	DefaultMaxDepth       = 4
	DefaultMaxResults     = 50
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Output: OutputConfig{
			Dest:            DefaultDest(),
			Subdir:          DefaultSubdir,
			OpenAfterExport: false,
		},

		Format: FormatConfig{
			Placeholder:    DefaultPlaceholder,
			ProfileBaseURL: DefaultProfileBaseURL,
			UnknownSender:  DefaultUnknownSender,
		},

		Input: InputConfig{
			SearchRoot: homeOr("."),
			MaxDepth:   DefaultMaxDepth,
			MaxResults: DefaultMaxResults,
		},

		History: HistoryConfig{
			Enabled: true,
		},

		Watch: WatchConfig{
			DebounceMs: DefaultDebounceMs,
		},
	}
}

// DefaultDest returns the desktop directory of the current user.
func DefaultDest() string {
	return filepath.Join(homeOr("."), "Desktop")
}

func homeOr(fallback string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return fallback
	}
	return home
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatpdf configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatpdf"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	return configPath("config.toml")
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	return configPath("config.json")
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	return configPath("config.yaml")
}

// HistoryPath returns the configured history database path.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return ExpandPath(c.History.Path), nil
	}
	return configPath("history.db")
}

func configPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ExpandPath expands a leading "~" to the home directory.
func ExpandPath(path string) string {
	if path == "~" {
		return homeOr(path)
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(homeOr("~"), path[2:])
	}
	return path
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, then YAML, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	loaders := []struct {
		path func() (string, error)
		load func(*Config, string) error
	}{
		{ConfigPathTOML, LoadTOML},
		{ConfigPathJSON, LoadJSON},
		{ConfigPathYAML, LoadYAML},
	}

	var loadErr error
	for _, l := range loaders {
		path, err := l.path()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}

		cfg := Default()
		if err := l.load(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load config %s: %w", path, err)
			continue
		}
		return finish(cfg)
	}

	cfg, err := finish(Default())
	if err != nil {
		return nil, err
	}
	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadYAML loads configuration from a YAML file.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. The format follows the file extension; TOML is the default.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return finish(cfg)
}

// finish applies environment overrides, path expansion and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := fillDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults and expands "~".
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Output
	if cfg.Output.Dest == "" {
		cfg.Output.Dest = defaults.Output.Dest
	}
	cfg.Output.Dest = ExpandPath(cfg.Output.Dest)
	if cfg.Output.Subdir == "" {
		cfg.Output.Subdir = defaults.Output.Subdir
	}

	// Format
	if cfg.Format.Placeholder == "" {
		cfg.Format.Placeholder = defaults.Format.Placeholder
	}
	if cfg.Format.ProfileBaseURL == "" {
		cfg.Format.ProfileBaseURL = defaults.Format.ProfileBaseURL
	}
	if cfg.Format.UnknownSender == "" {
		cfg.Format.UnknownSender = defaults.Format.UnknownSender
	}

	// Fonts
	cfg.Fonts.Regular = ExpandPath(cfg.Fonts.Regular)
	cfg.Fonts.Bold = ExpandPath(cfg.Fonts.Bold)

	// Input
	if cfg.Input.SearchRoot == "" {
		cfg.Input.SearchRoot = defaults.Input.SearchRoot
	}
	cfg.Input.SearchRoot = ExpandPath(cfg.Input.SearchRoot)
	if cfg.Input.MaxDepth == 0 {
		cfg.Input.MaxDepth = defaults.Input.MaxDepth
	}
	if cfg.Input.MaxResults == 0 {
		cfg.Input.MaxResults = defaults.Input.MaxResults
	}

	// Watch
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = defaults.Watch.DebounceMs
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chatpdf configuration file\n")
	buf.WriteString("# Generated by chatpdf - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Output
	if strings.TrimSpace(c.Output.Dest) == "" {
		errs = append(errs, ValidationError{Field: "output.dest", Message: "must not be empty"})
	}
	if strings.ContainsAny(c.Output.Subdir, `/\`) || c.Output.Subdir == "." || c.Output.Subdir == ".." {
		errs = append(errs, ValidationError{
			Field:   "output.subdir",
			Message: fmt.Sprintf("'%s' must be a single directory name", c.Output.Subdir),
		})
	}

	// Format
	if u, err := url.Parse(c.Format.ProfileBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "format.profile_base_url",
			Message: fmt.Sprintf("'%s' must be an absolute http(s) URL", c.Format.ProfileBaseURL),
		})
	}

	// Fonts
	if c.Fonts.Bold != "" && c.Fonts.Regular == "" {
		errs = append(errs, ValidationError{Field: "fonts.bold", Message: "requires fonts.regular"})
	}
	for field, path := range map[string]string{"fonts.regular": c.Fonts.Regular, "fonts.bold": c.Fonts.Bold} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("font file not found: %s", path)})
		}
	}

	// Input
	if c.Input.MaxDepth < 0 {
		errs = append(errs, ValidationError{Field: "input.max_depth", Message: "must not be negative"})
	}
	if c.Input.MaxResults < 0 {
		errs = append(errs, ValidationError{Field: "input.max_results", Message: "must not be negative"})
	}

	// Watch
	if c.Watch.DebounceMs < 0 || c.Watch.DebounceMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: fmt.Sprintf("%d out of range 0-60000", c.Watch.DebounceMs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - CHATPDF_DEST: overrides output.dest
//   - CHATPDF_OPEN: overrides output.open_after_export
//   - CHATPDF_LOCALE: overrides format.locale
//   - CHATPDF_FONT_REGULAR: overrides fonts.regular
//   - CHATPDF_FONT_BOLD: overrides fonts.bold
func (c *Config) ApplyEnvOverrides() {
	if dest := os.Getenv("CHATPDF_DEST"); dest != "" {
		c.Output.Dest = dest
	}
	if open := os.Getenv("CHATPDF_OPEN"); open != "" {
		c.Output.OpenAfterExport = parseBool(open)
	}
	if locale := os.Getenv("CHATPDF_LOCALE"); locale != "" {
		c.Format.Locale = locale
	}
	if font := os.Getenv("CHATPDF_FONT_REGULAR"); font != "" {
		c.Fonts.Regular = font
	}
	if font := os.Getenv("CHATPDF_FONT_BOLD"); font != "" {
		c.Fonts.Bold = font
	}
}

// ResolvedLocale returns format.locale, falling back to the process locale.
func (c *Config) ResolvedLocale() string {
	if c.Format.Locale != "" {
		return c.Format.Locale
	}
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "output.dest").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "output.dest").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"output.dest",
		"output.subdir",
		"output.open_after_export",
		"format.locale",
		"format.placeholder",
		"format.profile_base_url",
		"format.unknown_sender",
		"fonts.regular",
		"fonts.bold",
		"input.search_root",
		"input.max_depth",
		"input.max_results",
		"history.enabled",
		"history.path",
		"watch.debounce_ms",
	}
}

// String returns the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
