package browsertest

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

// ErrTargetClosed is returned by operations on a closed page.
var ErrTargetClosed = errors.New("target page, context or browser has been closed")

// Page is a fake browser.Page.
type Page struct {
	d  *Driver
	ID string

	url     string
	fixture Fixture
	closed  bool
	values  map[string]string
	clicked []string
	gotoOpt browser.GotoOptions
}

var _ browser.Page = (*Page)(nil)

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	return p.closed
}

// GotoOptions returns the options passed to the last Goto call.
func (p *Page) GotoOptions() browser.GotoOptions {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	return p.gotoOpt
}

// Value returns the text last filled into selector.
func (p *Page) Value(selector string) (string, bool) {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	v, ok := p.values[selector]
	return v, ok
}

// Clicked returns the selectors clicked on this page, in order.
func (p *Page) Clicked() []string {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	out := make([]string, len(p.clicked))
	copy(out, p.clicked)
	return out
}

func (p *Page) call(op, arg string) error {
	call := op + " " + p.ID
	if arg != "" {
		call += " " + arg
	}
	if err := p.d.record(call); err != nil {
		return err
	}
	if p.Closed() {
		return ErrTargetClosed
	}
	return nil
}

func (p *Page) Goto(ctx context.Context, url string, opts browser.GotoOptions) error {
	p.d.mu.Lock()
	p.gotoOpt = opts
	p.d.mu.Unlock()

	if err := p.call("goto", url); err != nil {
		return err
	}
	f, ok := p.d.fixture(url)
	if !ok {
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", url)
	}
	p.d.mu.Lock()
	p.url = url
	p.fixture = f
	p.d.mu.Unlock()
	return nil
}

func (p *Page) Content(ctx context.Context) (string, error) {
	if err := p.call("content", ""); err != nil {
		return "", err
	}
	return p.fixture.HTML, nil
}

func (p *Page) Title(ctx context.Context) (string, error) {
	if err := p.call("title", ""); err != nil {
		return "", err
	}
	return p.fixture.Title, nil
}

func (p *Page) InnerText(ctx context.Context, selector string) (string, error) {
	if err := p.call("inner-text", selector); err != nil {
		return "", err
	}
	if selector == "body" {
		return p.fixture.BodyText, nil
	}
	texts := p.fixture.Elements[selector]
	if len(texts) == 0 {
		return "", fmt.Errorf("timeout waiting for selector %q", selector)
	}
	return texts[0], nil
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := p.call("query-all", selector); err != nil {
		return nil, err
	}
	texts := p.fixture.Elements[selector]
	out := make([]browser.Element, 0, len(texts))
	for _, text := range texts {
		out = append(out, &element{page: p, selector: selector, text: text})
	}
	return out, nil
}

func (p *Page) Query(ctx context.Context, selector string) (browser.Element, error) {
	if err := p.call("query", selector); err != nil {
		return nil, err
	}
	texts := p.fixture.Elements[selector]
	if len(texts) == 0 {
		return nil, nil
	}
	return &element{page: p, selector: selector, text: texts[0]}, nil
}

func (p *Page) Screenshot(ctx context.Context, opts browser.ScreenshotOptions) ([]byte, error) {
	if err := p.call("screenshot", fmt.Sprintf("full_page=%t", opts.FullPage)); err != nil {
		return nil, err
	}
	return p.image(""), nil
}

func (p *Page) Evaluate(ctx context.Context, script string) (any, error) {
	if err := p.call("evaluate", ""); err != nil {
		return nil, err
	}
	if script != browser.LinksScript {
		return nil, fmt.Errorf("unsupported script in fake engine: %s", script)
	}
	// Mirror what real engines hand back after JSON decoding.
	out := make([]any, len(p.fixture.Links))
	for i, l := range p.fixture.Links {
		out[i] = l
	}
	return out, nil
}

func (p *Page) URL() string {
	p.d.mu.Lock()
	defer p.d.mu.Unlock()
	return p.url
}

func (p *Page) Close() error {
	if err := p.d.record("close-page " + p.ID); err != nil {
		return err
	}
	p.d.mu.Lock()
	p.closed = true
	p.d.mu.Unlock()
	return nil
}

func (p *Page) image(suffix string) []byte {
	if p.fixture.Screenshot != nil {
		return p.fixture.Screenshot
	}
	return []byte("\x89PNG " + p.url + suffix)
}

type element struct {
	page     *Page
	selector string
	text     string
}

func (e *element) InnerText(ctx context.Context) (string, error) {
	if err := e.page.call("element-text", e.selector); err != nil {
		return "", err
	}
	return e.text, nil
}

func (e *element) Click(ctx context.Context) error {
	if err := e.page.call("click", e.selector); err != nil {
		return err
	}
	e.page.d.mu.Lock()
	e.page.clicked = append(e.page.clicked, e.selector)
	e.page.d.mu.Unlock()
	return nil
}

func (e *element) Fill(ctx context.Context, text string) error {
	if err := e.page.call("fill", e.selector); err != nil {
		return err
	}
	e.page.d.mu.Lock()
	e.page.values[e.selector] = text
	e.page.d.mu.Unlock()
	return nil
}

func (e *element) Screenshot(ctx context.Context) ([]byte, error) {
	if err := e.page.call("element-screenshot", e.selector); err != nil {
		return nil, err
	}
	return e.page.image("#" + e.selector), nil
}
