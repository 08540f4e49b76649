// Package staticengine implements the browser capability interfaces with a
// plain HTTP client and an HTML parser. It executes no JavaScript and cannot
// render, so screenshots and arbitrary scripts are unsupported.
package staticengine

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

// ErrUnsupported is returned for capabilities that need a rendering engine.
var ErrUnsupported = errors.New("not supported by the static engine")

// ErrPageClosed is returned by operations on a closed page.
var ErrPageClosed = errors.New("page has been closed")

const (
	// DefaultMaxBodyBytes caps how much of a response body is parsed.
	DefaultMaxBodyBytes = 10 << 20

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "mcp-web-browser/static"

	defaultRequestTimeout = 30 * time.Second
	maxRedirects          = 10
)

// Options configures the static driver.
type Options struct {
	// Transport is cloned for each browser context; nil uses http.DefaultTransport
	Transport *http.Transport

	// UserAgent defaults to DefaultUserAgent
	UserAgent string

	// MaxBodyBytes defaults to DefaultMaxBodyBytes
	MaxBodyBytes int64

	// Policy, when set, is consulted for every request a page makes,
	// including redirects, followed links and form submissions
	Policy browser.URLPolicy
}

// Driver serves pages over HTTP without a browser process.
type Driver struct {
	opts Options
}

var _ browser.Driver = (*Driver)(nil)

// NewDriver creates a static driver.
func NewDriver(opts Options) *Driver {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Driver{opts: opts}
}

// Name returns "static".
func (d *Driver) Name() string { return "static" }

// Start returns an engine immediately; there is no process to run.
func (d *Driver) Start(ctx context.Context) (browser.Engine, error) {
	return &engine{opts: d.opts}, nil
}

type engine struct {
	opts Options
}

func (e *engine) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	return &staticBrowser{opts: e.opts}, nil
}

func (e *engine) Stop() error { return nil }

type staticBrowser struct {
	opts Options
}

func (b *staticBrowser) NewContext(ctx context.Context, opts browser.ContextOptions) (browser.BrowserContext, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	base := b.opts.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport)
	}
	transport := base.Clone()
	if opts.IgnoreHTTPSErrors {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // requested through ignore_https_errors
	}

	c := &staticContext{opts: b.opts, transport: transport}
	c.client = &http.Client{
		Transport:     transport,
		Jar:           jar,
		Timeout:       defaultRequestTimeout,
		CheckRedirect: c.checkRedirect,
	}
	return c, nil
}

func (b *staticBrowser) Close() error { return nil }

type staticContext struct {
	opts      Options
	transport *http.Transport
	client    *http.Client
}

// allow applies the policy to a request target.
func (c *staticContext) allow(u *url.URL) error {
	if c.opts.Policy == nil {
		return nil
	}
	if err := c.opts.Policy.Check(u.String()); err != nil {
		return fmt.Errorf("%w: %s: %v", browser.ErrURLNotAllowed, u, err)
	}
	return nil
}

func (c *staticContext) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	return c.allow(req.URL)
}

func (c *staticContext) NewPage(ctx context.Context) (browser.Page, error) {
	return newPage(c), nil
}

func (c *staticContext) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}
