// Package pwengine implements the browser capability interfaces on top of
// Playwright for Go.
package pwengine

import (
	"context"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

// Options configures the Playwright driver.
type Options struct {
	// Install downloads the Playwright driver and Chromium before starting
	Install bool

	// Output receives driver install/run output; nil discards it so the
	// stdio transport stays clean
	Output io.Writer
}

// Driver starts Playwright and launches Chromium.
type Driver struct {
	opts Options
}

var _ browser.Driver = (*Driver)(nil)

// NewDriver creates a Playwright driver.
func NewDriver(opts Options) *Driver {
	return &Driver{opts: opts}
}

// Name returns "playwright".
func (d *Driver) Name() string { return "playwright" }

func (d *Driver) runOptions() *playwright.RunOptions {
	out := d.opts.Output
	if out == nil {
		out = io.Discard
	}
	return &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   out,
		Stderr:   out,
	}
}

// Install downloads the Playwright driver and Chromium.
func (d *Driver) Install() error {
	if err := playwright.Install(d.runOptions()); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// Start runs the Playwright driver process.
func (d *Driver) Start(ctx context.Context) (browser.Engine, error) {
	if d.opts.Install {
		if err := d.Install(); err != nil {
			return nil, err
		}
	}

	pw, err := playwright.Run(d.runOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &engine{pw: pw}, nil
}

type engine struct {
	pw *playwright.Playwright
}

func (e *engine) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	b, err := e.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return &pwBrowser{b: b}, nil
}

func (e *engine) Stop() error {
	return e.pw.Stop()
}

type pwBrowser struct {
	b playwright.Browser
}

func (b *pwBrowser) NewContext(ctx context.Context, opts browser.ContextOptions) (browser.BrowserContext, error) {
	contextOpts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(opts.IgnoreHTTPSErrors),
	}
	if opts.Viewport != nil {
		contextOpts.Viewport = &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		}
	}

	c, err := b.b.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	return &pwContext{c: c}, nil
}

func (b *pwBrowser) Close() error {
	return b.b.Close()
}

type pwContext struct {
	c playwright.BrowserContext
}

func (c *pwContext) NewPage(ctx context.Context) (browser.Page, error) {
	p, err := c.c.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &page{p: p}, nil
}

func (c *pwContext) Close() error {
	return c.c.Close()
}
