package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvToConfig populates fields of cfg from READTABLE_* environment
// variables. A field is only touched when its flag was not set explicitly
// and it still holds its default value.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, def, flag, envKey string) {
		if cfg.isExplicit(flag) || *dst != def {
			return
		}
		if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.UserAgent, DefaultUserAgent(), "ua", "READTABLE_UA")
	setString(&cfg.CacheDir, "", "cache.dir", "READTABLE_CACHE_DIR")
	setString(&cfg.OutputDir, "", "out.dir", "READTABLE_OUT_DIR")
	setString(&cfg.Tables, DefaultTables, "tables", "READTABLE_TABLES")
	setString(&cfg.Charset, "", "charset", "READTABLE_CHARSET")
	setString(&cfg.Nested, DefaultNested, "nested", "READTABLE_NESTED")
	setString(&cfg.Delimiter, DefaultDelimiter, "delimiter", "READTABLE_DELIMITER")

	setDuration := func(dst *time.Duration, def time.Duration, flag, envKey string) {
		if cfg.isExplicit(flag) || *dst != def {
			return
		}
		s := strings.TrimSpace(os.Getenv(envKey))
		if s == "" {
			return
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			log.Warn().Str("env", envKey).Str("value", s).Msg("ignoring invalid duration")
			return
		}
		*dst = d
	}
	setDuration(&cfg.Timeout, DefaultTimeout, "timeout", "READTABLE_TIMEOUT")
	setDuration(&cfg.CacheMaxAge, 0, "cache.maxAge", "READTABLE_CACHE_MAX_AGE")

	if !cfg.isExplicit("preview.rows") && cfg.PreviewRows == DefaultPreviewRows {
		if s := strings.TrimSpace(os.Getenv("READTABLE_PREVIEW_ROWS")); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n >= 0 {
				cfg.PreviewRows = n
			}
		}
	}

	// Booleans only switch on; an explicit -flag=false keeps them off.
	setBool := func(dst *bool, flag, envKey string) {
		if cfg.isExplicit(flag) || *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "v", "VERBOSE")
	setBool(&cfg.Preview, "preview", "READTABLE_PREVIEW")
	setBool(&cfg.CRLF, "crlf", "READTABLE_CRLF")
	setBool(&cfg.CacheClear, "cache.clear", "READTABLE_CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "cache.strictPerms", "READTABLE_CACHE_STRICT_PERMS")
	setBool(&cfg.CacheBypass, "cache.bypass", "READTABLE_CACHE_BYPASS")
	setBool(&cfg.RequireHTML, "require.html", "READTABLE_REQUIRE_HTML")
}
