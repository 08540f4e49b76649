package browser

import "context"

// Driver starts the browser automation runtime. A Session calls Start at most
// once per successful initialization.
type Driver interface {
	// Name identifies the engine in logs (e.g. "playwright", "chromedp").
	Name() string

	// Start boots the automation runtime and returns a handle to it.
	Start(ctx context.Context) (Engine, error)
}

// Engine is a running automation runtime.
type Engine interface {
	// Launch starts one browser process.
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)

	// Stop shuts the runtime down.
	Stop() error
}

// Browser is one live browser process owned by an Engine.
type Browser interface {
	NewContext(ctx context.Context, opts ContextOptions) (BrowserContext, error)
	Close() error
}

// BrowserContext is an isolated browsing profile (cookies, TLS policy)
// within a Browser.
type BrowserContext interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single document within a BrowserContext.
type Page interface {
	// Goto navigates to url and blocks until opts.WaitUntil is reached or
	// opts.Timeout elapses. Exceeding the timeout is an error.
	Goto(ctx context.Context, url string, opts GotoOptions) error

	// Content returns the rendered HTML of the document.
	Content(ctx context.Context) (string, error)

	// Title returns the document title.
	Title(ctx context.Context) (string, error)

	// InnerText returns the visible text of the first element matching selector.
	InnerText(ctx context.Context, selector string) (string, error)

	// QueryAll returns every element matching selector in document order.
	// Zero matches is not an error.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// Query returns the first element matching selector, or nil and no
	// error when nothing matches.
	Query(ctx context.Context, selector string) (Element, error)

	// Screenshot captures the viewport, or the whole scrollable page when
	// opts.FullPage is set, as PNG bytes.
	Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error)

	// Evaluate runs script, a JavaScript function expression, with no
	// arguments and returns its JSON-decoded result.
	Evaluate(ctx context.Context, script string) (any, error)

	// URL returns the current document URL.
	URL() string

	Close() error
}

// Element is a handle to a DOM element within a Page.
type Element interface {
	InnerText(ctx context.Context) (string, error)
	Click(ctx context.Context) error

	// Fill replaces the element's current value with text.
	Fill(ctx context.Context, text string) error

	// Screenshot captures only this element's rendered bitmap as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
}
