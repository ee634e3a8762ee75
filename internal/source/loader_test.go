package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/readtable/internal/fetch"
)

func newLoader() *Loader {
	return &Loader{Fetcher: &fetch.Client{UserAgent: "readtable-test", PerRequestTimeout: 2 * time.Second}}
}

func TestLoad_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<table><tr><td>Zürich</td></tr></table>"), 0o644))

	text, err := newLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Zürich")
}

func TestLoad_MissingFileIsIOError(t *testing.T) {
	_, err := newLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.html"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "read", ioErr.Op)
}

func TestLoad_InvalidUTF8IsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.html")
	require.NoError(t, os.WriteFile(path, []byte("<td>ok\xff\xfeend</td>"), 0o644))

	text, err := newLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "ok")
	assert.Contains(t, text, "end")
	assert.Contains(t, text, "�")
}

func TestLoad_StripsUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.html")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBF<table></table>"), 0o644))

	text, err := newLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", text)
}

func TestLoad_AutoCharsetFromMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.html")
	doc := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body><td>caf\xe9</td></body></html>")
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	l := newLoader()
	l.Charset = CharsetAuto
	text, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "café")
}

func TestLoad_ExplicitCharset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.html")
	require.NoError(t, os.WriteFile(path, []byte("<td>na\xefve</td>"), 0o644))

	l := newLoader()
	l.Charset = "windows-1252"
	text, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "naïve")
}

func TestLoad_UnknownCharset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.html")
	require.NoError(t, os.WriteFile(path, []byte("<td>x</td>"), 0o644))

	l := newLoader()
	l.Charset = "klingon-8"
	_, err := l.Load(context.Background(), path)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, "decode", ioErr.Op)
}

func TestLoad_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "readtable-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<table><tr><td>remote</td></tr></table>"))
	}))
	defer srv.Close()

	text, err := newLoader().Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "remote")
}

// Raw file hosts serve .html as text/plain; the body must still be loaded.
func TestLoad_RemotePlainTextContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("<table><tr><td>raw</td></tr></table>"))
	}))
	defer srv.Close()

	text, err := newLoader().Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "<td>raw</td>")
}

func TestLoad_RemoteAutoCharsetFromHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1252")
		_, _ = w.Write([]byte("<td>\xa9 2024</td>"))
	}))
	defer srv.Close()

	l := newLoader()
	l.Charset = CharsetAuto
	text, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "© 2024")
}

func TestLoad_RemoteBadStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newLoader().Load(context.Background(), srv.URL)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, ne.Status)
	assert.Contains(t, ne.Error(), "status 503")
}

func TestLoad_UnreachableIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newLoader().Load(context.Background(), url)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne), "got %v", err)
	assert.Zero(t, ne.Status)
}

func TestLoad_RemoteWithoutFetcher(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), "https://example.com")
	var ne *NetworkError
	require.True(t, errors.As(err, &ne), "got %v", err)
}
