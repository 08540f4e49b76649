// Package browsertest provides a scriptable in-memory browser engine that
// records every call made through the browser capability interfaces.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

// Fixture describes the document served for one URL.
type Fixture struct {
	HTML     string
	Title    string
	BodyText string

	// Elements maps a selector to the inner text of each match, in document order
	Elements map[string][]string

	// Links is returned by the links script
	Links []string

	// Screenshot is returned by page and element captures; nil yields a
	// placeholder derived from the URL
	Screenshot []byte
}

// Driver is a fake browser.Driver. The zero value is not usable; call NewDriver.
type Driver struct {
	mu       sync.Mutex
	fixtures map[string]Fixture
	failures map[string]error
	once     map[string]bool
	hooks    map[string]func()
	calls    []string
	pages    []*Page
	seq      int
}

var _ browser.Driver = (*Driver)(nil)

// NewDriver creates an empty fake driver.
func NewDriver() *Driver {
	return &Driver{
		fixtures: make(map[string]Fixture),
		failures: make(map[string]error),
		once:     make(map[string]bool),
		hooks:    make(map[string]func()),
	}
}

// AddPage registers the fixture served for url.
func (d *Driver) AddPage(url string, f Fixture) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fixtures[url] = f
	return d
}

// FailOn makes every call to op return err until Clear is called. op is the
// first word of the recorded call, e.g. "launch", "goto", "close-page".
func (d *Driver) FailOn(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op] = err
	delete(d.once, op)
}

// FailOnce makes only the next call to op return err.
func (d *Driver) FailOnce(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op] = err
	d.once[op] = true
}

// OnCall runs fn each time op is recorded, before the call returns. fn runs
// without the driver lock held, so it may call back into the session.
func (d *Driver) OnCall(op string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks[op] = fn
}

// Clear removes every configured failure.
func (d *Driver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = make(map[string]error)
	d.once = make(map[string]bool)
}

// Calls returns a copy of the call log in order.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

// Count returns how many recorded calls have op as their first word.
func (d *Driver) Count(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if opOf(c) == op {
			n++
		}
	}
	return n
}

// Index returns the position of the first call equal to call, or -1.
func (d *Driver) Index(call string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, c := range d.calls {
		if c == call {
			return i
		}
	}
	return -1
}

// Pages returns every page opened so far, oldest first.
func (d *Driver) Pages() []*Page {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Page, len(d.pages))
	copy(out, d.pages)
	return out
}

// record appends call to the log and returns the failure configured for its op.
func (d *Driver) record(call string) error {
	op := opOf(call)

	d.mu.Lock()
	d.calls = append(d.calls, call)
	hook := d.hooks[op]
	err, ok := d.failures[op]
	if ok && d.once[op] {
		delete(d.failures, op)
		delete(d.once, op)
	}
	d.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (d *Driver) fixture(url string) (Fixture, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.fixtures[url]
	return f, ok
}

func opOf(call string) string {
	if i := strings.IndexByte(call, ' '); i >= 0 {
		return call[:i]
	}
	return call
}

// Name returns "fake".
func (d *Driver) Name() string { return "fake" }

// Start records "start".
func (d *Driver) Start(ctx context.Context) (browser.Engine, error) {
	if err := d.record("start"); err != nil {
		return nil, err
	}
	return &engine{d: d}, nil
}

type engine struct{ d *Driver }

func (e *engine) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	if err := e.d.record(fmt.Sprintf("launch headless=%t", opts.Headless)); err != nil {
		return nil, err
	}
	return &fakeBrowser{d: e.d}, nil
}

func (e *engine) Stop() error { return e.d.record("stop") }

type fakeBrowser struct{ d *Driver }

func (b *fakeBrowser) NewContext(ctx context.Context, opts browser.ContextOptions) (browser.BrowserContext, error) {
	if err := b.d.record(fmt.Sprintf("new-context ignore_https_errors=%t", opts.IgnoreHTTPSErrors)); err != nil {
		return nil, err
	}
	return &fakeContext{d: b.d}, nil
}

func (b *fakeBrowser) Close() error { return b.d.record("close-browser") }

type fakeContext struct{ d *Driver }

func (c *fakeContext) NewPage(ctx context.Context) (browser.Page, error) {
	c.d.mu.Lock()
	c.d.seq++
	id := fmt.Sprintf("page-%d", c.d.seq)
	c.d.mu.Unlock()

	if err := c.d.record("new-page " + id); err != nil {
		return nil, err
	}

	p := &Page{d: c.d, ID: id, url: "about:blank", values: make(map[string]string)}
	c.d.mu.Lock()
	c.d.pages = append(c.d.pages, p)
	c.d.mu.Unlock()
	return p, nil
}

func (c *fakeContext) Close() error { return c.d.record("close-context") }
