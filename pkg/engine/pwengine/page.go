package pwengine

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

// Playwright calls are synchronous and take their own timeouts, so the
// context arguments below are not consulted.

type page struct {
	p playwright.Page
}

func (p *page) Goto(ctx context.Context, url string, opts browser.GotoOptions) error {
	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(milliseconds(opts.Timeout))
	}

	_, err := p.p.Goto(url, gotoOpts)
	return err
}

func (p *page) Content(ctx context.Context) (string, error) {
	return p.p.Content()
}

func (p *page) Title(ctx context.Context) (string, error) {
	return p.p.Title()
}

func (p *page) InnerText(ctx context.Context, selector string) (string, error) {
	return p.p.InnerText(selector)
}

func (p *page) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	handles, err := p.p.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]browser.Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &element{h: h})
	}
	return elements, nil
}

func (p *page) Query(ctx context.Context, selector string) (browser.Element, error) {
	h, err := p.p.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	return &element{h: h}, nil
}

func (p *page) Screenshot(ctx context.Context, opts browser.ScreenshotOptions) ([]byte, error) {
	return p.p.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(opts.FullPage),
	})
}

func (p *page) Evaluate(ctx context.Context, script string) (any, error) {
	return p.p.Evaluate(script)
}

func (p *page) URL() string {
	return p.p.URL()
}

func (p *page) Close() error {
	return p.p.Close()
}

type element struct {
	h playwright.ElementHandle
}

func (e *element) InnerText(ctx context.Context) (string, error) {
	return e.h.InnerText()
}

func (e *element) Click(ctx context.Context) error {
	return e.h.Click()
}

func (e *element) Fill(ctx context.Context, text string) error {
	return e.h.Fill(text)
}

func (e *element) Screenshot(ctx context.Context) ([]byte, error) {
	return e.h.Screenshot()
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
