package cdpengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/security"
	"github.com/chromedp/chromedp"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
)

type page struct {
	ctx    context.Context
	cancel context.CancelFunc
	url    string
}

func (p *page) setup(opts browser.ContextOptions) []chromedp.Action {
	actions := []chromedp.Action{
		cdppage.SetLifecycleEventsEnabled(true),
		security.SetIgnoreCertificateErrors(opts.IgnoreHTTPSErrors),
	}
	if opts.Viewport != nil {
		actions = append(actions, emulation.SetDeviceMetricsOverride(
			int64(opts.Viewport.Width), int64(opts.Viewport.Height), 1, false,
		))
	}
	return actions
}

// run executes actions on the tab, bounded by the caller's context.
func (p *page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := mergeDeadline(p.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (p *page) Goto(ctx context.Context, url string, opts browser.GotoOptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if opts.WaitUntil == browser.WaitUntilNetworkIdle {
		idle := p.listenNetworkIdle(ctx)
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-idle:
				return nil
			case <-ctx.Done():
				return fmt.Errorf("timeout waiting for network idle: %w", ctx.Err())
			}
		}))
	}

	if err := p.run(ctx, actions...); err != nil {
		return err
	}
	p.url = url
	return nil
}

// listenNetworkIdle signals once the main frame reports networkIdle after the
// next navigation starts. The listener is removed when ctx is done.
func (p *page) listenNetworkIdle(ctx context.Context) <-chan struct{} {
	idle := make(chan struct{}, 1)
	listenCtx, cancel := context.WithCancel(p.ctx)
	context.AfterFunc(ctx, cancel)

	started := false
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		e, ok := ev.(*cdppage.EventLifecycleEvent)
		if !ok {
			return
		}
		switch e.Name {
		case "init":
			started = true
		case "networkIdle":
			if !started {
				return
			}
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})
	return idle
}

func (p *page) Content(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *page) Title(ctx context.Context) (string, error) {
	var title string
	err := p.run(ctx, chromedp.Title(&title))
	return title, err
}

func (p *page) InnerText(ctx context.Context, selector string) (string, error) {
	var text string
	err := p.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery))
	return text, err
}

func (p *page) nodes(ctx context.Context, selector string) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (p *page) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	nodes, err := p.nodes(ctx, selector)
	if err != nil {
		return nil, err
	}
	elements := make([]browser.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &element{page: p, node: n})
	}
	return elements, nil
}

func (p *page) Query(ctx context.Context, selector string) (browser.Element, error) {
	nodes, err := p.nodes(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return &element{page: p, node: nodes[0]}, nil
}

func (p *page) Screenshot(ctx context.Context, opts browser.ScreenshotOptions) ([]byte, error) {
	var buf []byte
	action := chromedp.CaptureScreenshot(&buf)
	if opts.FullPage {
		// quality 100 keeps the capture in PNG
		action = chromedp.FullScreenshot(&buf, 100)
	}
	if err := p.run(ctx, action); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *page) Evaluate(ctx context.Context, script string) (any, error) {
	var result any
	if err := p.run(ctx, chromedp.Evaluate(expression(script), &result)); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *page) URL() string {
	return p.url
}

func (p *page) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	return err
}

// expression turns a function literal into an invocation so callers can pass
// scripts in the same form as other engines.
func expression(script string) string {
	s := strings.TrimSpace(script)
	if strings.HasPrefix(s, "function") || strings.HasPrefix(s, "async") ||
		(strings.HasPrefix(s, "(") && strings.Contains(s, "=>")) {
		return "(" + s + ")()"
	}
	return s
}

type element struct {
	page *page
	node *cdp.Node
}

func (e *element) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *element) InnerText(ctx context.Context) (string, error) {
	var text string
	err := e.page.run(ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID))
	return text, err
}

func (e *element) Click(ctx context.Context) error {
	return e.page.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *element) Fill(ctx context.Context, text string) error {
	return e.page.run(ctx,
		chromedp.Clear(e.ids(), chromedp.ByNodeID),
		chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID),
	)
}

func (e *element) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := e.page.run(ctx, chromedp.Screenshot(e.ids(), &buf, chromedp.ByNodeID)); err != nil {
		return nil, err
	}
	return buf, nil
}
