package app

import "time"

// Defaults shared by flag registration and file-config overlay.
const (
	DefaultTables      = "first"
	DefaultDelimiter   = ","
	DefaultTimeout     = 20 * time.Second
	DefaultNested      = "ignore"
	DefaultPreviewRows = 10
	DefaultEnvFile     = ".env"
)

// Config holds runtime configuration for a single run.
type Config struct {
	// Source is the URL or local path to read.
	Source string

	// Output
	OutputDir    string
	OutputName   string
	Tables       string
	Delimiter    string
	CRLF         bool
	ManifestPath string
	PDFPath      string

	// Input
	UserAgent   string
	Timeout     time.Duration
	Charset     string
	RequireHTML bool

	// Extraction
	Nested        string
	FragmentStrip bool

	// Preview
	Preview     bool
	PreviewRows int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	CacheBypass      bool

	Verbose bool

	// explicit holds the names of flags set on the command line.
	explicit map[string]bool
}

// MarkExplicit records flags the user passed on the command line. Env and
// file overlays leave those fields alone even when the value equals the
// default, so "-tables first" beats READTABLE_TABLES.
func (c *Config) MarkExplicit(flags ...string) {
	if c.explicit == nil {
		c.explicit = make(map[string]bool, len(flags))
	}
	for _, f := range flags {
		c.explicit[f] = true
	}
}

func (c *Config) isExplicit(flag string) bool {
	return c.explicit[flag]
}

// DefaultUserAgent identifies the tool to remote servers.
func DefaultUserAgent() string {
	return "Mozilla/5.0 (compatible; readtable/" + BuildVersion + ")"
}
