// Package cdpengine implements the browser capability interfaces over the
// Chrome DevTools Protocol using chromedp.
package cdpengine

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

// Options configures the chromedp driver.
type Options struct {
	// ExecPath overrides the Chrome executable; empty uses chromedp's lookup
	ExecPath string

	// Flags are extra command line switches passed to Chrome
	Flags map[string]interface{}
}

// Driver launches a local Chrome through chromedp's exec allocator.
type Driver struct {
	opts Options
}

var _ browser.Driver = (*Driver)(nil)

// NewDriver creates a chromedp driver.
func NewDriver(opts Options) *Driver {
	return &Driver{opts: opts}
}

// Name returns "chromedp".
func (d *Driver) Name() string { return "chromedp" }

// Start prepares the engine. Chrome itself is started by Launch because the
// headless switch is a process flag.
func (d *Driver) Start(ctx context.Context) (browser.Engine, error) {
	return &engine{opts: d.opts}, nil
}

type engine struct {
	opts Options

	mu      sync.Mutex
	cancels []context.CancelFunc
}

func (e *engine) allocatorOptions(headless bool) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", headless),
		chromedp.Flag("disable-extensions", true),
	)
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}
	if e.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.opts.ExecPath))
	}
	for name, value := range e.opts.Flags {
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

func (e *engine) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	// The allocator outlives the launching call, so it hangs off Background.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), e.allocatorOptions(opts.Headless)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run allocates Chrome and must use the undecorated context,
	// otherwise the process dies with the caller's deadline.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	e.mu.Lock()
	e.cancels = append(e.cancels, allocCancel)
	e.mu.Unlock()

	return &cdpBrowser{ctx: browserCtx, cancel: browserCancel, allocCancel: allocCancel}, nil
}

// Stop releases every allocator that is still running.
func (e *engine) Stop() error {
	e.mu.Lock()
	cancels := e.cancels
	e.cancels = nil
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return nil
}

type cdpBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// executor returns a context whose CDP commands go to the browser target
// rather than to a tab.
func (b *cdpBrowser) executor() context.Context {
	c := chromedp.FromContext(b.ctx)
	return cdp.WithExecutor(b.ctx, c.Browser)
}

func (b *cdpBrowser) NewContext(ctx context.Context, opts browser.ContextOptions) (browser.BrowserContext, error) {
	createCtx, cancel := mergeDeadline(b.executor(), ctx)
	defer cancel()

	id, err := target.CreateBrowserContext().WithDisposeOnDetach(true).Do(createCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	return &cdpContext{browser: b, id: id, opts: opts}, nil
}

func (b *cdpBrowser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	return err
}

type cdpContext struct {
	browser *cdpBrowser
	id      cdp.BrowserContextID
	opts    browser.ContextOptions
}

func (c *cdpContext) NewPage(ctx context.Context) (browser.Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(c.browser.ctx, chromedp.WithExistingBrowserContext(c.id))

	p := &page{ctx: tabCtx, cancel: tabCancel, url: "about:blank"}
	if err := chromedp.Run(tabCtx, p.setup(c.opts)...); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return p, nil
}

func (c *cdpContext) Close() error {
	return target.DisposeBrowserContext(c.id).Do(c.browser.executor())
}

// mergeDeadline derives a context from base that is also cancelled when
// caller is done.
func mergeDeadline(base, caller context.Context) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := caller.Deadline(); ok {
		ctx, cancel = context.WithDeadline(base, deadline)
	} else {
		ctx, cancel = context.WithCancel(base)
	}
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
