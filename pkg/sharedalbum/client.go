// Package sharedalbum resolves publicly shared iCloud photo albums.
package sharedalbum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"k8s.io/klog/v2"
)

// BatchSize is the number of photo guids sent per webasseturls request.
const BatchSize = 20

// statusMovedHost is returned when an album lives on another partition host.
const statusMovedHost = 330

const maxHostHops = 2

// Headers mimic the icloud.com web client. No credentials are needed.
var Headers = map[string]string{
	"Origin":          "https://www.icloud.com",
	"Accept-Language": "en-US,en;q=0.8",
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_12_4) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/56.0.2924.87 Safari/537.36",
	"Content-Type":    "text/plain",
	"Accept":          "*/*",
	"Referer":         "https://www.icloud.com/sharedalbum/",
	"Connection":      "keep-alive",
}

// Client talks to the sharedstreams API. Requests are issued one at a time;
// a Client is not safe for concurrent use.
type Client struct {
	HTTP *http.Client

	// BaseURL maps a share token to its API root.
	BaseURL func(token string) (string, error)

	moved map[string]string
}

// NewClient returns a client using http.DefaultClient.
func NewClient() *Client {
	return &Client{
		HTTP:    http.DefaultClient,
		BaseURL: BaseURL,
		moved:   map[string]string{},
	}
}

// Album fetches the album for a share token with every derivative URL resolved.
func (c *Client) Album(ctx context.Context, token string) (*Album, error) {
	baseURL := c.BaseURL
	if baseURL == nil {
		baseURL = BaseURL
	}

	base, err := baseURL(token)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("base URL for %s: %s", token, base)

	s, err := c.Stream(ctx, base)
	if err != nil {
		return nil, err
	}
	klog.Infof("album %q has %d photos", s.Metadata.StreamName, len(s.PhotoGUIDs))

	urls, err := c.AssetURLs(ctx, base, s.PhotoGUIDs)
	if err != nil {
		return nil, err
	}

	return &Album{
		Token:    token,
		Metadata: s.Metadata,
		Images:   Enrich(s, urls),
	}, nil
}

// Stream fetches album metadata and photo records.
func (c *Client) Stream(ctx context.Context, base string) (*Stream, error) {
	body, err := c.post(ctx, base, "webstream", map[string]any{"streamCtag": nil})
	if err != nil {
		return nil, err
	}
	return ParseStream(bytes.NewReader(body))
}

// AssetURLs resolves derivative checksums to download URLs, BatchSize guids at a time.
func (c *Client) AssetURLs(ctx context.Context, base string, guids []string) (map[string]string, error) {
	urls := map[string]string{}

	for _, batch := range Batches(guids, BatchSize) {
		klog.Infof("retrieving URLs for %s - %s ...", batch[0], batch[len(batch)-1])
		body, err := c.post(ctx, base, "webasseturls", map[string]any{"photoGuids": batch})
		if err != nil {
			return nil, err
		}

		got, err := ParseAssetURLs(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		for checksum, u := range got {
			if _, ok := urls[checksum]; !ok {
				urls[checksum] = u
			}
		}
	}

	return urls, nil
}

// Batches splits guids into consecutive slices of at most n.
func Batches(guids []string, n int) [][]string {
	var out [][]string
	for i := 0; i < len(guids); i += n {
		end := i + n
		if end > len(guids) {
			end = len(guids)
		}
		out = append(out, guids[i:end])
	}
	return out
}

func (c *Client) post(ctx context.Context, base string, endpoint string, payload any) ([]byte, error) {
	bs, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	orig := base
	base = c.resolve(base)
	for hop := 0; ; hop++ {
		u := base + endpoint
		body, status, err := c.do(ctx, u, bs)
		if err != nil {
			return nil, err
		}

		if status != statusMovedHost {
			return body, nil
		}

		if hop >= maxHostHops {
			return nil, &FetchError{URL: u, StatusCode: status, Err: fmt.Errorf("too many host redirects")}
		}

		moved, err := movedBase(base, body)
		if err != nil {
			return nil, &FetchError{URL: u, StatusCode: status, Err: err}
		}
		klog.Infof("album moved: %s -> %s", base, moved)
		c.remember(orig, moved)
		base = moved
	}
}

func (c *Client) do(ctx context.Context, u string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, &FetchError{URL: u, Err: err}
	}
	for k, v := range Headers {
		req.Header.Set(k, v)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	klog.V(1).Infof("POST %s: %s", u, payload)
	resp, err := hc.Do(req)
	if err != nil {
		return nil, 0, &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &FetchError{URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	klog.V(2).Infof("%s returned %s: %s", u, resp.Status, body)

	if resp.StatusCode == statusMovedHost {
		return body, resp.StatusCode, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &FetchError{
			URL:        u,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       snippet(body),
		}
	}

	return body, resp.StatusCode, nil
}

// movedBase builds the API root on the host named in a 330 response.
func movedBase(base string, body []byte) (string, error) {
	var r struct {
		Host string `json:"X-Apple-MMe-Host"`
	}
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("unmarshal redirect: %w", err)
	}
	if r.Host == "" {
		return "", fmt.Errorf("redirect without X-Apple-MMe-Host")
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base: %w", err)
	}
	token := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)[0]
	if token == "" {
		return "", fmt.Errorf("no token in %s", base)
	}

	return fmt.Sprintf("https://%s/%s/sharedstreams/", r.Host, token), nil
}

func (c *Client) resolve(base string) string {
	if m, ok := c.moved[base]; ok {
		return m
	}
	return base
}

func (c *Client) remember(from string, to string) {
	if c.moved == nil {
		c.moved = map[string]string{}
	}
	c.moved[from] = to
}

func snippet(b []byte) string {
	if len(b) > 512 {
		return string(b[:512]) + "..."
	}
	return string(b)
}
