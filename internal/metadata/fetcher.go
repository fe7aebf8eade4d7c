// Package metadata derives a title, description and thumbnail for feed
// items from their URL: oEmbed for YouTube, Open Graph and meta tags for
// articles. Resolution never fails; anything that goes wrong yields empty
// metadata.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"syscall"
	"time"

	infrahttp "github.com/jonesrussell/north-cloud/content-feed/infrastructure/http"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (compatible; AwContentFeed/1.0)"
	DefaultMaxBodyBytes = 5 << 20
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrBlockedAddress is returned when the target resolves to a private address
	// and BlockPrivateAddresses is set.
	ErrBlockedAddress = errors.New("blocked private address")
	// ErrEmptyBody is returned for a successful response without content.
	ErrEmptyBody = errors.New("empty response body")
	// ErrRateLimited is returned when the context ends while waiting for the limiter.
	ErrRateLimited = errors.New("rate limit wait aborted")
)

// Fetch outcomes as recorded in metrics.
const (
	outcomeSuccess     = "success"
	outcomeStatus      = "status"
	outcomeBlocked     = "blocked"
	outcomeRateLimited = "rate_limited"
	outcomeError       = "error"
)

// FetcherConfig is injected at construction; zero values take defaults.
type FetcherConfig struct {
	// Timeout covers connect and transfer.
	Timeout   time.Duration
	UserAgent string
	// InsecureSkipVerify disables certificate checks.
	InsecureSkipVerify    bool
	MaxBodyBytes          int64
	BlockPrivateAddresses bool
	// RequestsPerSecond limits outbound requests; 0 means unlimited.
	RequestsPerSecond float64
	Burst             int
	// Transport replaces the default transport, mostly for tests.
	Transport http.RoundTripper
}

func (c *FetcherConfig) setDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultFetchTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.RequestsPerSecond > 0 && c.Burst <= 0 {
		c.Burst = 1
	}
}

// FetchRecorder receives one observation per fetch attempt.
type FetchRecorder interface {
	ObserveFetch(outcome string, d time.Duration)
}

// PageFetcher is what the resolvers need from a Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Fetcher performs single-attempt HTTP GETs. Safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	limiter   *rate.Limiter
	recorder  FetchRecorder
	logger    infralogger.Logger
}

// NewFetcher builds a Fetcher. recorder may be nil.
func NewFetcher(cfg FetcherConfig, log infralogger.Logger, recorder FetchRecorder) *Fetcher {
	cfg.setDefaults()

	if cfg.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled for metadata fetches")
	}

	var client *http.Client
	if cfg.Transport != nil {
		client = &http.Client{Transport: cfg.Transport, Timeout: cfg.Timeout}
	} else {
		clientCfg := infrahttp.ClientConfig{
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}
		if cfg.BlockPrivateAddresses {
			clientCfg.DialControl = blockPrivateControl
		}
		client = infrahttp.NewClient(clientCfg)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		limiter:   limiter,
		recorder:  recorder,
		logger:    log,
	}
}

// Fetch GETs rawURL and returns its body decoded to UTF-8. Redirects are
// followed; any non-2xx final status is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()
	body, err := f.fetch(ctx, rawURL)

	if f.recorder != nil {
		f.recorder.ObserveFetch(fetchOutcome(err), time.Since(start))
	}
	return body, err
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBody))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	return toUTF8(body, resp.Header.Get("Content-Type")), nil
}

// toUTF8 decodes body when Content-Type declares a known non-UTF-8 charset.
// Undeclared or unknown charsets are passed through unchanged.
func toUTF8(body []byte, contentType string) []byte {
	if contentType == "" {
		return body
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	label := params["charset"]
	if label == "" {
		return body
	}

	enc, name := charset.Lookup(label)
	if enc == nil || name == "utf-8" {
		return body
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrUnexpectedStatus):
		return outcomeStatus
	case errors.Is(err, ErrBlockedAddress):
		return outcomeBlocked
	case errors.Is(err, ErrRateLimited):
		return outcomeRateLimited
	default:
		return outcomeError
	}
}

// blockPrivateControl runs after DNS resolution, so address is the IP that
// is about to be dialled.
func blockPrivateControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	if ip := net.ParseIP(host); ip == nil || isPrivateIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

var privateBlocks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"fc00::/7",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	blocks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("parse %q: %v", cidr, err))
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// isPrivateIP reports loopback, link-local, unspecified and RFC 1918 / 6598 /
// 4193 addresses.
func isPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}
