package updater

import (
	"adhan/internal/structures"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	ErrNotFound         = errors.New("remote resource not found")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

type FetcherInterface interface {
	Fetch(ctx context.Context, path string) (io.ReadCloser, error)
	FetchText(ctx context.Context, path string) (string, error)
}

// Identity supplies the value sent as User-Agent suffix.
type Identity interface {
	DeviceID() string
}

// HTTPFetcher downloads files relative to the configured sync base URL.
// Bodies served with zstd or gzip content encoding are decoded on the fly.
type HTTPFetcher struct {
	client   *http.Client
	baseURL  string
	appName  string
	identity Identity
}

func NewHTTPFetcher(conf *structures.Config, identity Identity) FetcherInterface {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: conf.Sync.Timeout},
		baseURL:  conf.Sync.BaseURL,
		appName:  conf.AppName,
		identity: identity,
	}
}

func (f *HTTPFetcher) userAgent() string {
	if f.identity == nil || f.identity.DeviceID() == "" {
		return f.appName
	}
	return f.appName + "/" + f.identity.DeviceID()
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	target, err := url.JoinPath(f.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %w", target, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d: %w", target, resp.StatusCode, ErrUnexpectedStatus)
	}

	body, err := decodeBody(resp)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	return body, nil
}

func (f *HTTPFetcher) FetchText(ctx context.Context, path string) (string, error) {
	body, err := f.Fetch(ctx, path)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

type decodedBody struct {
	io.Reader
	closeFn func() error
}

func (d *decodedBody) Close() error {
	return d.closeFn()
}

func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))

	switch encoding {
	case "", "identity":
		return resp.Body, nil
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		return &decodedBody{Reader: dec, closeFn: func() error {
			dec.Close()
			return resp.Body.Close()
		}}, nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &decodedBody{Reader: gz, closeFn: func() error {
			gz.Close()
			return resp.Body.Close()
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
