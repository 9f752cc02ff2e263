package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Scan modes accepted in [scan].mode and --mode.
const (
	ModeLeading  = "leading"
	ModeTrailing = "trailing"
	ModeBoth     = "both"
)

// Output formats accepted in [output].format and --format.
const (
	FormatPretty  = "pretty"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
	// FormatShort prints only diagnostics, one per line.
	FormatShort = "short"
)

var (
	validModes   = []string{ModeLeading, ModeTrailing, ModeBoth}
	validFormats = []string{FormatPretty, FormatJSON, FormatYAML, FormatMsgpack, FormatShort}
	validColors  = []string{"auto", "on", "off"}
)

// Manifest is a loaded trivia.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`
}

type ScanConfig struct {
	Extensions []string `toml:"extensions"`
	Mode       string   `toml:"mode"`
	// 0 = GOMAXPROCS
	Jobs int `toml:"jobs"`
	// Cache directory for scan results; empty disables the cache.
	Cache string `toml:"cache,omitempty"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			Extensions: []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".go"},
			Mode:       ModeLeading,
		},
		Output: OutputConfig{
			Format: FormatPretty,
			Color:  "auto",
		},
	}
}

// LoadManifest finds trivia.toml above startDir and loads it.
// ok is false when there is no file; the caller then uses Default.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	configPath, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   configPath,
		Root:   filepath.Dir(configPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes path over Default: keys missing in the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("scan", "extensions") {
		cfg.Scan.Extensions = file.Scan.Extensions
	}
	if meta.IsDefined("scan", "mode") {
		cfg.Scan.Mode = file.Scan.Mode
	}
	if meta.IsDefined("scan", "jobs") {
		cfg.Scan.Jobs = file.Scan.Jobs
	}
	if meta.IsDefined("scan", "cache") {
		cfg.Scan.Cache = file.Scan.Cache
		if cfg.Scan.Cache != "" && !filepath.IsAbs(cfg.Scan.Cache) {
			cfg.Scan.Cache = filepath.Join(filepath.Dir(path), cfg.Scan.Cache)
		}
	}
	if meta.IsDefined("output", "format") {
		cfg.Output.Format = file.Output.Format
	}
	if meta.IsDefined("output", "color") {
		cfg.Output.Color = file.Output.Color
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enum values and normalises extensions in place.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validModes, c.Scan.Mode) {
		errs = append(errs, fmt.Errorf("[scan].mode must be one of %s, got %q", strings.Join(validModes, "|"), c.Scan.Mode))
	}
	if c.Scan.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[scan].jobs must be >= 0, got %d", c.Scan.Jobs))
	}
	if !slices.Contains(validFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("[output].format must be one of %s, got %q", strings.Join(validFormats, "|"), c.Output.Format))
	}
	if !slices.Contains(validColors, c.Output.Color) {
		errs = append(errs, fmt.Errorf("[output].color must be one of %s, got %q", strings.Join(validColors, "|"), c.Output.Color))
	}
	c.Scan.Extensions = NormalizeExtensions(c.Scan.Extensions)
	return errors.Join(errs...)
}

// NormalizeExtensions lowercases, adds the leading dot and drops duplicates.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || e == "." {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// Overrides are command-line values; zero values leave the config alone.
type Overrides struct {
	Extensions []string
	Mode       string
	Jobs       int
	JobsSet    bool
	Cache      string
	Format     string
	Color      string
}

// Apply returns c with o layered on top and validates the result.
func (c Config) Apply(o Overrides) (Config, error) {
	if len(o.Extensions) > 0 {
		c.Scan.Extensions = slices.Clone(o.Extensions)
	}
	if o.Mode != "" {
		c.Scan.Mode = o.Mode
	}
	if o.JobsSet {
		c.Scan.Jobs = o.Jobs
	}
	if o.Cache != "" {
		c.Scan.Cache = o.Cache
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Color != "" {
		c.Output.Color = o.Color
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# trivia configuration\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault creates dir/trivia.toml with Default values. It refuses to
// overwrite an existing file.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %q: %w", path, err)
	}
	data, err := Encode(Default())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
