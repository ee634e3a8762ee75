// Package source loads HTML documents from a URL or a local path and
// decodes them to UTF-8 text.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/readtable/internal/fetch"
)

// CharsetAuto detects the document encoding from the Content-Type header,
// a byte order mark or a <meta charset> declaration.
const CharsetAuto = "auto"

// Getter fetches a remote document. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Loader reads documents. The zero value reads local files only; set
// Fetcher to allow URLs.
type Loader struct {
	Fetcher Getter
	// Charset is "" for lenient UTF-8, CharsetAuto, or an IANA charset name.
	Charset string
}

// Load returns the document text for source. Sources starting with http://
// or https:// are fetched; anything else is a local path. Failures are
// *NetworkError or *IOError.
func (l *Loader) Load(ctx context.Context, src string) (string, error) {
	if fetch.IsRemote(src) {
		return l.loadRemote(ctx, src)
	}
	return l.loadLocal(src)
}

func (l *Loader) loadRemote(ctx context.Context, url string) (string, error) {
	if l.Fetcher == nil {
		return "", &NetworkError{URL: url, Err: errors.New("no HTTP client configured")}
	}
	body, contentType, err := l.Fetcher.Get(ctx, url)
	if err != nil {
		ne := &NetworkError{URL: url, Err: err}
		var se *fetch.StatusError
		if errors.As(err, &se) {
			ne.Status = se.Code
		}
		return "", ne
	}
	log.Debug().Str("url", url).Str("content_type", contentType).Str("size", humanize.Bytes(uint64(len(body)))).Msg("fetched document")
	text, err := decode(body, contentType, l.Charset)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	return text, nil
}

func (l *Loader) loadLocal(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Op: "read", Path: path, Err: err}
	}
	log.Debug().Str("path", path).Str("size", humanize.Bytes(uint64(len(b)))).Msg("read document")
	text, err := decode(b, "", l.Charset)
	if err != nil {
		return "", &IOError{Op: "decode", Path: path, Err: err}
	}
	return text, nil
}

// decode converts raw bytes to UTF-8. Invalid sequences become U+FFFD
// rather than failing the whole document.
func decode(b []byte, contentType string, mode string) (string, error) {
	var enc encoding.Encoding
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "", "utf-8", "utf8":
		enc = unicode.UTF8BOM
	case CharsetAuto:
		var name string
		enc, name, _ = charset.DetermineEncoding(b, contentType)
		log.Debug().Str("charset", name).Msg("detected charset")
	default:
		enc, _ = charset.Lookup(m)
		if enc == nil {
			return "", fmt.Errorf("unknown charset %q", mode)
		}
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}
