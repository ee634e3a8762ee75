package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/readtable/internal/csvout"
	"github.com/hyperifyio/readtable/internal/extract"
	"github.com/hyperifyio/readtable/internal/source"
)

// FileConfig represents the optional YAML or JSON configuration file.
// Durations are strings such as "30s" or "24h".
type FileConfig struct {
	Output struct {
		Dir       string `yaml:"dir" json:"dir"`
		Name      string `yaml:"name" json:"name"`
		Tables    string `yaml:"tables" json:"tables"`
		Delimiter string `yaml:"delimiter" json:"delimiter"`
		CRLF      bool   `yaml:"crlf" json:"crlf"`
		Manifest  string `yaml:"manifest" json:"manifest"`
		PDF       string `yaml:"pdf" json:"pdf"`
	} `yaml:"output" json:"output"`

	Input struct {
		UserAgent   string `yaml:"userAgent" json:"userAgent"`
		Timeout     string `yaml:"timeout" json:"timeout"`
		Charset     string `yaml:"charset" json:"charset"`
		RequireHTML bool   `yaml:"requireHTML" json:"requireHTML"`
	} `yaml:"input" json:"input"`

	Extract struct {
		Nested        string `yaml:"nested" json:"nested"`
		FragmentStrip bool   `yaml:"fragmentStrip" json:"fragmentStrip"`
	} `yaml:"extract" json:"extract"`

	Preview struct {
		Enable bool `yaml:"enable" json:"enable"`
		Rows   *int `yaml:"rows" json:"rows"`
	} `yaml:"preview" json:"preview"`

	Cache struct {
		Dir         string `yaml:"dir" json:"dir"`
		MaxAge      string `yaml:"maxAge" json:"maxAge"`
		Clear       bool   `yaml:"clear" json:"clear"`
		StrictPerms bool   `yaml:"strictPerms" json:"strictPerms"`
		Bypass      bool   `yaml:"bypass" json:"bypass"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, &source.IOError{Op: "read config", Path: path, Err: err}
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("%w: parse yaml: %v", ErrUsage, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("%w: parse json: %v", ErrUsage, err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("%w: parse config: %v (yaml) / %v (json)", ErrUsage, err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto fields of cfg that were not
// set by a flag and still hold their defaults, so flags and env keep
// precedence over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if !cfg.isExplicit("out.dir") && cfg.OutputDir == "" && fc.Output.Dir != "" {
		cfg.OutputDir = fc.Output.Dir
	}
	if !cfg.isExplicit("out.name") && cfg.OutputName == "" && fc.Output.Name != "" {
		cfg.OutputName = fc.Output.Name
	}
	if !cfg.isExplicit("tables") && (cfg.Tables == "" || cfg.Tables == DefaultTables) && fc.Output.Tables != "" {
		cfg.Tables = fc.Output.Tables
	}
	if !cfg.isExplicit("delimiter") && (cfg.Delimiter == "" || cfg.Delimiter == DefaultDelimiter) && fc.Output.Delimiter != "" {
		cfg.Delimiter = fc.Output.Delimiter
	}
	if !cfg.isExplicit("crlf") && !cfg.CRLF && fc.Output.CRLF {
		cfg.CRLF = true
	}
	if !cfg.isExplicit("manifest") && cfg.ManifestPath == "" && fc.Output.Manifest != "" {
		cfg.ManifestPath = fc.Output.Manifest
	}
	if !cfg.isExplicit("pdf") && cfg.PDFPath == "" && fc.Output.PDF != "" {
		cfg.PDFPath = fc.Output.PDF
	}

	if !cfg.isExplicit("ua") && (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent()) && fc.Input.UserAgent != "" {
		cfg.UserAgent = fc.Input.UserAgent
	}
	if !cfg.isExplicit("charset") && cfg.Charset == "" && fc.Input.Charset != "" {
		cfg.Charset = fc.Input.Charset
	}
	if !cfg.isExplicit("require.html") && !cfg.RequireHTML && fc.Input.RequireHTML {
		cfg.RequireHTML = true
	}
	if !cfg.isExplicit("timeout") && (cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout) && fc.Input.Timeout != "" {
		d, err := time.ParseDuration(fc.Input.Timeout)
		if err != nil {
			return fmt.Errorf("%w: input.timeout: %v", ErrUsage, err)
		}
		cfg.Timeout = d
	}

	if !cfg.isExplicit("nested") && (cfg.Nested == "" || cfg.Nested == DefaultNested) && fc.Extract.Nested != "" {
		cfg.Nested = fc.Extract.Nested
	}
	if !cfg.isExplicit("fragment.strip") && !cfg.FragmentStrip && fc.Extract.FragmentStrip {
		cfg.FragmentStrip = true
	}

	if !cfg.isExplicit("preview") && !cfg.Preview && fc.Preview.Enable {
		cfg.Preview = true
	}
	if !cfg.isExplicit("preview.rows") && cfg.PreviewRows == DefaultPreviewRows && fc.Preview.Rows != nil {
		cfg.PreviewRows = *fc.Preview.Rows
	}

	if !cfg.isExplicit("cache.dir") && cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if !cfg.isExplicit("cache.maxAge") && cfg.CacheMaxAge == 0 && fc.Cache.MaxAge != "" {
		d, err := time.ParseDuration(fc.Cache.MaxAge)
		if err != nil {
			return fmt.Errorf("%w: cache.maxAge: %v", ErrUsage, err)
		}
		cfg.CacheMaxAge = d
	}
	if !cfg.isExplicit("cache.clear") && !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.isExplicit("cache.strictPerms") && !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.isExplicit("cache.bypass") && !cfg.CacheBypass && fc.Cache.Bypass {
		cfg.CacheBypass = true
	}

	if !cfg.isExplicit("v") && !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}

// ValidateConfig rejects configurations that cannot produce a run. Every
// error wraps ErrUsage.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Source) == "" {
		return fmt.Errorf("%w: a URL or HTML file name is required", ErrUsage)
	}
	if _, err := delimiterRune(cfg.Delimiter); err != nil {
		return err
	}
	if _, err := csvout.ParseSelection(cfg.Tables); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if _, ok := extract.ParseNestedPolicy(cfg.Nested); !ok {
		return fmt.Errorf("%w: nested policy must be ignore or restart, got %q", ErrUsage, cfg.Nested)
	}
	if cs := strings.ToLower(strings.TrimSpace(cfg.Charset)); cs != "" && cs != source.CharsetAuto {
		if enc, _ := charset.Lookup(cs); enc == nil {
			return fmt.Errorf("%w: unknown charset %q", ErrUsage, cfg.Charset)
		}
	}
	if cfg.Timeout < 0 || cfg.CacheMaxAge < 0 || cfg.PreviewRows < 0 {
		return fmt.Errorf("%w: negative limits are not allowed", ErrUsage)
	}
	if strings.ContainsAny(cfg.OutputName, `/\`) {
		return fmt.Errorf("%w: output name must be a file name, got %q", ErrUsage, cfg.OutputName)
	}
	return nil
}

// delimiterRune returns the single rune of s. An empty string means ','.
func delimiterRune(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if s == `\t` || strings.EqualFold(s, "tab") {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%w: delimiter must be a single character other than quote or newline, got %q", ErrUsage, s)
	}
	return r, nil
}
