package folio

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultSampleTimeout = 10 * time.Second

// SampleFetcher loads the fixed sample file, either over HTTP or from disk.
type SampleFetcher struct {
	URL     string
	Client  *fasthttp.Client
	Timeout time.Duration
}

// Name returns the VFS path the sample is mounted at.
func (s SampleFetcher) Name() string {
	raw := strings.TrimSpace(s.URL)
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	name := path.Base(strings.ReplaceAll(raw, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "sample.txt"
	}
	return name
}

// Fetch returns the sample content.
func (s SampleFetcher) Fetch(ctx context.Context) ([]byte, error) {
	raw := strings.TrimSpace(s.URL)
	if raw == "" {
		return nil, fmt.Errorf("no sample url configured")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse sample url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return s.fetchHTTP(ctx, raw)
	case "file":
		return os.ReadFile(u.Path)
	case "":
		return os.ReadFile(raw)
	default:
		return nil, fmt.Errorf("unsupported sample url scheme %q", u.Scheme)
	}
}

func (s SampleFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &fasthttp.Client{}
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultSampleTimeout
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	if err := client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("fetch sample: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("fetch sample: unexpected status %d", code)
	}
	return append([]byte(nil), resp.Body()...), nil
}
