package staticengine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

type page struct {
	c *staticContext

	url    *url.URL
	base   *url.URL
	doc    *goquery.Document
	closed bool
}

func newPage(c *staticContext) *page {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
	blank, _ := url.Parse("about:blank")
	return &page{c: c, url: blank, base: blank, doc: doc}
}

func (p *page) check() error {
	if p.closed {
		return ErrPageClosed
	}
	return nil
}

func (p *page) Goto(ctx context.Context, rawURL string, opts browser.GotoOptions) error {
	if err := p.check(); err != nil {
		return err
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	return p.load(req)
}

// load performs req and replaces the current document with the response.
// Any status code counts as a completed navigation, as in a browser.
func (p *page) load(req *http.Request) error {
	switch req.URL.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("unsupported url scheme %q", req.URL.Scheme)
	}
	if err := p.c.allow(req.URL); err != nil {
		return err
	}
	req.Header.Set("User-Agent", p.c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := p.c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, p.c.opts.MaxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	p.doc = doc
	p.url = resp.Request.URL
	p.base = p.url
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := p.url.Parse(strings.TrimSpace(href)); err == nil {
			p.base = u
		}
	}
	return nil
}

func (p *page) Content(ctx context.Context) (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	return p.doc.Html()
}

func (p *page) Title(ctx context.Context) (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	return strings.TrimSpace(p.doc.Find("title").First().Text()), nil
}

func (p *page) find(selector string) (*goquery.Selection, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return p.doc.FindMatcher(m), nil
}

func (p *page) InnerText(ctx context.Context, selector string) (string, error) {
	sel, err := p.find(selector)
	if err != nil {
		return "", err
	}
	if sel.Length() == 0 {
		return "", fmt.Errorf("no element matches selector %q", selector)
	}
	return innerText(sel.Get(0)), nil
}

func (p *page) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	sel, err := p.find(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]browser.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{page: p, sel: s})
	})
	return elements, nil
}

func (p *page) Query(ctx context.Context, selector string) (browser.Element, error) {
	sel, err := p.find(selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, nil
	}
	return &element{page: p, sel: sel.First()}, nil
}

func (p *page) Screenshot(ctx context.Context, opts browser.ScreenshotOptions) ([]byte, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("screenshot: %w", ErrUnsupported)
}

// Evaluate understands only the link collection script.
func (p *page) Evaluate(ctx context.Context, script string) (any, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	if script != browser.LinksScript {
		return nil, fmt.Errorf("script evaluation: %w", ErrUnsupported)
	}

	links := []any{}
	p.doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			links = append(links, "")
			return
		}
		links = append(links, p.resolve(href))
	})
	return links, nil
}

// resolve mirrors HTMLAnchorElement.href for a present attribute: the
// reference resolves against the base URL, unparseable values pass through.
func (p *page) resolve(href string) string {
	u, err := p.base.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return u.String()
}

func (p *page) URL() string {
	return p.url.String()
}

func (p *page) Close() error {
	p.closed = true
	return nil
}
