// Package config loads xmlrec CLI configuration from JSONC files and flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/xmlrec/pkg/fs"
	"github.com/calvinalkan/xmlrec/pkg/xmlrec"
)

// Error variables for config loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrFormatInvalid      = errors.New("format must be json or yaml")
	ErrIndentInvalid      = errors.New("indent must be -1 (compact) or a positive number of spaces")
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds all configuration options.
type Config struct {
	Document      string
	Indent        int
	AtomicSave    bool
	DefaultLayout string
	CData         bool
	Format        string

	// Resolved values (computed)
	EffectiveCwd string        // Absolute working directory (from -C flag or os.Getwd)
	DocumentAbs  string        // Absolute document path, empty when none configured
	Layout       xmlrec.Layout // Parsed DefaultLayout

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources
}

// Layer is one configuration source: a config file or the CLI flags.
// Nil fields are not set by that source, so false and 0 can override an
// earlier true or non-zero value.
type Layer struct {
	Document      *string `json:"document"`
	Indent        *int    `json:"indent"`
	AtomicSave    *bool   `json:"atomic_save"`
	DefaultLayout *string `json:"default_layout"`
	CData         *bool   `json:"cdata"`
	Format        *string `json:"format"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Indent:        xmlrec.DefaultIndent,
		DefaultLayout: xmlrec.AttributeStyle.String(),
		Format:        FormatJSON,
	}
}

// FileName is the default project config file name.
const FileName = ".xmlrec.json"

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/xmlrec/config.json if set, otherwise ~/.config/xmlrec/config.json.
// Returns empty string if home directory cannot be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "xmlrec", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "xmlrec", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Overrides       Layer             // CLI flag values; nil fields mean no override
	Env             map[string]string // environment variables
	FS              fs.FS             // filesystem for config files; nil means [fs.NewReal]
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/xmlrec/config.json or $XDG_CONFIG_HOME/xmlrec/config.json)
// 3. Project config file at default location (.xmlrec.json, if exists)
// 4. Explicit config file via ConfigPath (replaces the project file)
// 5. CLI overrides.
//
// The document path in the returned Config is resolved to an absolute path.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	fsys := input.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	cfg := Default()

	globalLayer, globalFile, err := loadGlobal(fsys, input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalFile
	cfg = merge(cfg, globalLayer)

	projectLayer, projectFile, err := loadProject(fsys, workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectFile
	cfg = merge(cfg, projectLayer)

	cfg = merge(cfg, input.Overrides)

	cfg.Layout, err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	switch {
	case cfg.Document == "":
	case filepath.IsAbs(cfg.Document):
		cfg.DocumentAbs = cfg.Document
	default:
		cfg.DocumentAbs = filepath.Join(workDir, cfg.Document)
	}

	return cfg, nil
}

func loadGlobal(fsys fs.FS, env map[string]string) (Layer, string, error) {
	path := globalPath(env)
	if path == "" {
		return Layer{}, "", nil
	}

	layer, loaded, err := loadFile(fsys, path, false)
	if err != nil || !loaded {
		return Layer{}, "", err
	}

	return layer, path, nil
}

// loadProject loads the project config file (.xmlrec.json) or an explicit config file.
func loadProject(fsys fs.FS, workDir, configPath string) (Layer, string, error) {
	var (
		path      string
		mustExist bool
	)

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		_, statErr := fsys.Stat(path)
		if statErr != nil {
			if errors.Is(statErr, os.ErrNotExist) {
				return Layer{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
			}

			return Layer{}, "", fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, statErr)
		}
	} else {
		path = filepath.Join(workDir, FileName)
	}

	layer, loaded, err := loadFile(fsys, path, mustExist)
	if err != nil || !loaded {
		return Layer{}, "", err
	}

	return layer, path, nil
}

// loadFile loads a config file. If mustExist is false, a missing file returns
// an empty layer; any other read error is reported.
func loadFile(fsys fs.FS, path string, mustExist bool) (Layer, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if !mustExist && errors.Is(err, os.ErrNotExist) {
			return Layer{}, false, nil
		}

		return Layer{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	layer, parseErr := parse(data)
	if parseErr != nil {
		return Layer{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return layer, true, nil
}

func parse(data []byte) (Layer, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Layer{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var layer Layer

	err = json.Unmarshal(standardized, &layer)
	if err != nil {
		return Layer{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return layer, nil
}

func merge(base Config, overlay Layer) Config {
	if overlay.Document != nil {
		base.Document = *overlay.Document
	}

	if overlay.Indent != nil {
		base.Indent = *overlay.Indent
	}

	if overlay.AtomicSave != nil {
		base.AtomicSave = *overlay.AtomicSave
	}

	if overlay.DefaultLayout != nil {
		base.DefaultLayout = *overlay.DefaultLayout
	}

	if overlay.CData != nil {
		base.CData = *overlay.CData
	}

	if overlay.Format != nil {
		base.Format = strings.ToLower(*overlay.Format)
	}

	return base
}

func validate(cfg Config) (xmlrec.Layout, error) {
	if cfg.Format != FormatJSON && cfg.Format != FormatYAML {
		return 0, fmt.Errorf("%w, got %q", ErrFormatInvalid, cfg.Format)
	}

	if cfg.Indent < xmlrec.CompactIndent {
		return 0, fmt.Errorf("%w, got %d", ErrIndentInvalid, cfg.Indent)
	}

	return xmlrec.ParseLayout(cfg.DefaultLayout)
}

// Options maps the configuration onto document options.
func (c Config) Options() xmlrec.Options {
	return xmlrec.Options{
		Indent:        c.Indent,
		AtomicSave:    c.AtomicSave,
		DefaultLayout: c.Layout,
	}
}

// Lines renders the effective configuration as key=value lines in a stable order.
func (c Config) Lines() []string {
	document := c.DocumentAbs
	if document == "" {
		document = "(none)"
	}

	return []string{
		"effective_cwd=" + c.EffectiveCwd,
		"document=" + document,
		"indent=" + strconv.Itoa(c.Indent),
		"atomic_save=" + strconv.FormatBool(c.AtomicSave),
		"default_layout=" + c.Layout.String(),
		"cdata=" + strconv.FormatBool(c.CData),
		"format=" + c.Format,
	}
}
