// Package config loads notegraph configuration from TOML or YAML files.
//
// The file format is chosen by extension (.toml, .yaml, .yml). Environment
// variables written as $VAR or ${VAR} are expanded before decoding, values
// left unset take their defaults, and the result is validated before it is
// returned.
//
// Lookup order for the file is: an explicit path (the --config flag), the
// NOTEGRAPH_CONFIG environment variable, then config.toml under the user
// configuration directory ($XDG_CONFIG_HOME/notegraph). Without any of
// these the defaults are used.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/notegraph/pkg/discover"
	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/viewport"
)

// EnvConfig names the environment variable holding a config file path.
const EnvConfig = "NOTEGRAPH_CONFIG"

// Default values not owned by another package.
const (
	DefaultAddr     = "127.0.0.1:7070"
	DefaultTick     = 15 * time.Millisecond
	DefaultDebounce = 250 * time.Millisecond
	DefaultWorkers  = 8
)

// Validator is implemented by configuration sections.
type Validator interface {
	Validate() error
}

// Config is the complete configuration.
type Config struct {
	Discovery DiscoveryConfig `json:"discovery" toml:"discovery" yaml:"discovery"`
	Links     LinksConfig     `json:"links" toml:"links" yaml:"links"`
	Layout    layout.Params   `json:"layout" toml:"layout" yaml:"layout"`
	View      ViewConfig      `json:"view" toml:"view" yaml:"view"`
	Serve     ServeConfig     `json:"serve" toml:"serve" yaml:"serve"`
	Log       LogConfig       `json:"log" toml:"log" yaml:"log"`
}

// DiscoveryConfig controls which files become notes.
type DiscoveryConfig struct {
	Extensions  []string `json:"extensions" toml:"extensions" yaml:"extensions"`
	IgnoreFiles []string `json:"ignore_files" toml:"ignore_files" yaml:"ignore_files"`
	NoIgnore    bool     `json:"no_ignore" toml:"no_ignore" yaml:"no_ignore"`
	Workers     int      `json:"workers" toml:"workers" yaml:"workers"`
}

// Options converts the section to discovery options.
func (c DiscoveryConfig) Options() discover.Options {
	return discover.Options{Extensions: c.Extensions, IgnoreFiles: c.IgnoreFiles, NoIgnore: c.NoIgnore}
}

// Validate validates the discovery configuration.
func (c *DiscoveryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Extensions, validation.Required, validation.Each(validation.By(extensionRule))),
		validation.Field(&c.Workers, validation.Min(1), validation.Max(256)),
	)
}

func extensionRule(v any) error {
	s, _ := v.(string)
	_, err := errors.ValidateExtension(s)
	if err != nil {
		return stderrors.New(errors.UserMessage(err))
	}
	return nil
}

// LinksConfig controls reference resolution.
type LinksConfig struct {
	FoldCase bool `json:"fold_case" toml:"fold_case" yaml:"fold_case"`
}

// ViewConfig controls the interactive view.
type ViewConfig struct {
	Tick           time.Duration    `json:"tick" toml:"tick" yaml:"tick"`
	Padding        float64          `json:"padding" toml:"padding" yaml:"padding"`
	MinZoom        float64          `json:"min_zoom" toml:"min_zoom" yaml:"min_zoom"`
	MaxZoom        float64          `json:"max_zoom" toml:"max_zoom" yaml:"max_zoom"`
	ZoomStep       float64          `json:"zoom_step" toml:"zoom_step" yaml:"zoom_step"`
	PickThreshold  float64          `json:"pick_threshold" toml:"pick_threshold" yaml:"pick_threshold"`
	PointRadius    float64          `json:"point_radius" toml:"point_radius" yaml:"point_radius"`
	LabelMinSize   float64          `json:"label_min_size" toml:"label_min_size" yaml:"label_min_size"`
	HighlightStep  float64          `json:"highlight_step" toml:"highlight_step" yaml:"highlight_step"`
	ResumeOnSelect bool             `json:"resume_on_select" toml:"resume_on_select" yaml:"resume_on_select"`
	ClearOnMiss    bool             `json:"clear_on_miss" toml:"clear_on_miss" yaml:"clear_on_miss"`
	Watch          bool             `json:"watch" toml:"watch" yaml:"watch"`
	Palette        interact.Palette `json:"palette" toml:"palette" yaml:"palette"`
}

// Interaction converts the section to controller options.
func (c ViewConfig) Interaction(dt float64) interact.Options {
	return interact.Options{
		DT:             dt,
		HighlightStep:  c.HighlightStep,
		ZoomStep:       c.ZoomStep,
		PickThreshold:  c.PickThreshold,
		PointRadius:    c.PointRadius,
		LabelMinSize:   c.LabelMinSize,
		ResumeOnSelect: c.ResumeOnSelect,
		ClearOnMiss:    c.ClearOnMiss,
	}
}

// Viewport returns a fresh viewport for the section's settings.
func (c ViewConfig) Viewport() *viewport.Viewport {
	return viewport.New(c.Padding, c.MinZoom, c.MaxZoom)
}

// Validate validates the view configuration.
func (c *ViewConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Tick, validation.Min(time.Millisecond), validation.Max(time.Second)),
		validation.Field(&c.Padding, validation.Min(0.0)),
		validation.Field(&c.MinZoom, validation.Min(0.001)),
		validation.Field(&c.MaxZoom, validation.Min(c.MinZoom)),
		validation.Field(&c.ZoomStep, validation.Min(0.0001), validation.Max(1.0)),
		validation.Field(&c.PickThreshold, validation.Min(0.0)),
		validation.Field(&c.PointRadius, validation.Min(0.1)),
		validation.Field(&c.HighlightStep, validation.Min(0.0001), validation.Max(1.0)),
		validation.Field(&c.Palette, validation.By(paletteRule)),
	)
}

func paletteRule(v any) error {
	p, _ := v.(interact.Palette)
	for name, c := range map[string]string{
		"background": p.Background, "text": p.Text, "primary": p.Primary,
		"success": p.Success, "danger": p.Danger,
	} {
		if !isHexColor(c) {
			return fmt.Errorf("%s: %q is not a #RRGGBB colour", name, c)
		}
	}
	if p.MutedAlpha < 0 || p.MutedAlpha > 1 {
		return fmt.Errorf("muted_alpha must be in [0, 1], got %v", p.MutedAlpha)
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// ServeConfig controls the HTTP API.
type ServeConfig struct {
	Addr     string        `json:"addr" toml:"addr" yaml:"addr"`
	Watch    bool          `json:"watch" toml:"watch" yaml:"watch"`
	Debounce time.Duration `json:"debounce" toml:"debounce" yaml:"debounce"`
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required, validation.By(addrRule)),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
	)
}

func addrRule(v any) error {
	s, _ := v.(string)
	if !strings.Contains(s, ":") {
		return stderrors.New("must be host:port or :port")
	}
	return nil
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `json:"level" toml:"level" yaml:"level"`
	File  string `json:"file" toml:"file" yaml:"file"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.By(func(v any) error {
			s, _ := v.(string)
			_, err := log.ParseLevel(s)
			return err
		})),
	)
}

// ParsedLevel returns the configured log level, or info when unset.
func (c LogConfig) ParsedLevel() log.Level {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Validate validates every section.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		v    Validator
	}{
		{"discovery", &c.Discovery},
		{"layout", c.Layout},
		{"view", &c.View},
		{"serve", &c.Serve},
		{"log", &c.Log},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// SetDefaults fills every unset field with its default.
func (c *Config) SetDefaults() {
	d := &c.Discovery
	if len(d.Extensions) == 0 {
		d.Extensions = append([]string(nil), discover.DefaultExtensions...)
	}
	if d.IgnoreFiles == nil {
		d.IgnoreFiles = append([]string(nil), discover.DefaultIgnoreFiles...)
	}
	if d.Workers == 0 {
		d.Workers = DefaultWorkers
	}

	c.Layout.SetDefaults()

	v := &c.View
	if v.Tick == 0 {
		v.Tick = DefaultTick
	}
	if v.Padding == 0 {
		v.Padding = viewport.DefaultPadding
	}
	if v.MinZoom == 0 {
		v.MinZoom = viewport.DefaultMinZoom
	}
	if v.MaxZoom == 0 {
		v.MaxZoom = viewport.DefaultMaxZoom
	}
	if v.ZoomStep == 0 {
		v.ZoomStep = viewport.DefaultZoomStep
	}
	if v.PickThreshold == 0 {
		v.PickThreshold = viewport.DefaultThreshold
	}
	if v.PointRadius == 0 {
		v.PointRadius = interact.DefaultPointRadius
	}
	if v.LabelMinSize == 0 {
		v.LabelMinSize = interact.DefaultLabelMinSize
	}
	if v.HighlightStep == 0 {
		v.HighlightStep = interact.DefaultHighlightStep
	}
	v.Palette.SetDefaults()

	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.Debounce == 0 {
		c.Serve.Debounce = DefaultDebounce
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads, expands, decodes, defaults and validates the file at path.
// All failures carry the INVALID_CONFIG code.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	return c, nil
}

// Parse decodes data in the format named by ext (".toml", ".yaml" or
// ".yml"), then applies defaults and validates.
func Parse(data []byte, ext string) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))
	c := &Config{}

	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(expanded)).Decode(c)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return c, nil
}

// Locate returns the config file to use: explicit if non-empty, then the
// NOTEGRAPH_CONFIG variable, then the per-user file if it exists. The
// empty string means no file.
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir, _ = os.UserConfigDir()
	}
	if dir != "" {
		p := filepath.Join(dir, "notegraph", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Resolve locates and loads the configuration. It returns the defaults and
// an empty path when no file is found.
func Resolve(explicit string) (*Config, string, error) {
	path := Locate(explicit)
	if path == "" {
		return Default(), "", nil
	}
	c, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return c, path, nil
}
