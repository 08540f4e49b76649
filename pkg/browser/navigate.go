package browser

import (
	"context"
	"fmt"
	"strings"
)

// BrowseTo closes the current page, opens a fresh one in the shared context,
// navigates it to url and returns the rendered HTML.
//
// The previous page is closed before anything else can fail, so a failed
// navigation leaves either no page or the new, partially loaded page as the
// current page. Only the next BrowseTo or Cleanup replaces it.
func (s *Session) BrowseTo(ctx context.Context, url string, opts ...CallOption) (string, error) {
	cfg := s.resolve(opts)

	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidArgument)
	}
	if s.opts.Policy != nil {
		if err := s.opts.Policy.Check(url); err != nil {
			cfg.sink.Warnf("Refusing navigation to %s: %v", url, err)
			return "", fmt.Errorf("%w: %s: %v", ErrURLNotAllowed, url, err)
		}
	}

	_, bctx, err := s.EnsureBrowser(ctx)
	if err != nil {
		cfg.sink.Errorf("Error navigating to %s: %v", url, err)
		return "", err
	}

	s.CloseCurrentPage()

	cfg.sink.Infof("Navigating to %s", url)

	page, err := bctx.NewPage(ctx)
	if err != nil {
		cfg.sink.Errorf("Error navigating to %s: %v", url, err)
		return "", engineError("opening page", err)
	}
	if err := s.setPage(page); err != nil {
		cfg.sink.Warnf("Session closed while navigating to %s", url)
		return "", err
	}

	gotoOpts := GotoOptions{
		WaitUntil: s.opts.WaitUntil,
		Timeout:   s.opts.NavigationTimeout,
	}
	if err := page.Goto(ctx, url, gotoOpts); err != nil {
		cfg.sink.Errorf("Error navigating to %s: %v", url, err)
		return "", engineError("navigating to "+url, err)
	}

	content, err := page.Content(ctx)
	if err != nil {
		cfg.sink.Errorf("Error reading content of %s: %v", url, err)
		return "", engineError("reading page content", err)
	}

	if s.Closed() {
		return "", ErrSessionClosed
	}

	if title, err := page.Title(ctx); err == nil {
		cfg.sink.Infof("Page title: %s", title)
	}

	return content, nil
}
