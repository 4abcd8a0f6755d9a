package shortcode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tstromberg/albumcodes/pkg/sharedalbum"
	"k8s.io/klog/v2"
)

// FileName returns "{base}-{checksum}{ext}" for a download URL, using the
// lower-cased last path segment without its query string.
func FileName(url string, checksum string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	name := strings.ToLower(path.Base(url))
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%s%s", strings.TrimSuffix(name, ext), checksum, ext)
}

// DownloadPath is where a photo from an album is stored.
func DownloadPath(dir string, token string, url string, checksum string) string {
	return filepath.Join(dir, token, FileName(url, checksum))
}

// Downloader fetches files over HTTP unless they are already on disk.
type Downloader struct {
	HTTP    *http.Client
	Headers map[string]string
}

// NewDownloader returns a downloader sending the icloud.com browser headers.
func NewDownloader() *Downloader {
	return &Downloader{HTTP: http.DefaultClient, Headers: sharedalbum.Headers}
}

// Download saves url to path. An existing file is left untouched and
// reported as not fetched.
func (d *Downloader) Download(ctx context.Context, url string, path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("mkdir: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		klog.V(1).Infof("%s exists, not downloading", path)
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat: %w", err)
	}

	klog.Infof("downloading %s from %s", path, url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, &sharedalbum.FetchError{URL: url, Err: err}
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}

	hc := d.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return false, &sharedalbum.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, &sharedalbum.FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	// Write next to the destination so a partial download never looks complete.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return false, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return false, &sharedalbum.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("copy: %w", err)}
	}

	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("rename: %w", err)
	}

	return true, nil
}
