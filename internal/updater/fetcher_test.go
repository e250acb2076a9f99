package updater

import (
	"adhan/internal/structures"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIdentity string

func (s staticIdentity) DeviceID() string { return string(s) }

func newFetcher(baseURL string, identity Identity) FetcherInterface {
	conf := &structures.Config{AppName: "AdhanDaemon", Sync: structures.SyncConfig{BaseURL: baseURL, Timeout: 2 * time.Second}}
	return NewHTTPFetcher(conf, identity)
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestFetch_DecodesZstd(t *testing.T) {
	payload := []byte(`{"Egypt":{}}`)
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(payload, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "zstd")
		w.Header().Set("Content-Encoding", "zstd")
		_, _ = w.Write(compressed)
	}))
	defer srv.Close()

	body, err := newFetcher(srv.URL, nil).Fetch(context.Background(), "cities.json")

	require.NoError(t, err)
	assert.Equal(t, string(payload), readAll(t, body))
}

func TestFetch_DecodesGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("theme"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	body, err := newFetcher(srv.URL, nil).Fetch(context.Background(), "theme.json")

	require.NoError(t, err)
	assert.Equal(t, "theme", readAll(t, body))
}

func TestFetch_StatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFetcher(srv.URL, nil)

	_, err := f.Fetch(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.Fetch(context.Background(), "broken")
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFetch_UnsupportedEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	_, err := newFetcher(srv.URL, nil).Fetch(context.Background(), "x")
	assert.Error(t, err)
}

func TestFetchText_TrimsAndSendsUserAgent(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("  7 \r\n"))
	}))
	defer srv.Close()

	text, err := newFetcher(srv.URL, staticIdentity("dev-1")).FetchText(context.Background(), "version.txt")

	require.NoError(t, err)
	assert.Equal(t, "7", text)
	assert.Equal(t, "AdhanDaemon/dev-1", agent)
}
