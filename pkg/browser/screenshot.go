package browser

import (
	"context"
	"encoding/base64"
)

// Screenshot captures the current page and returns the PNG as standard
// base64 text. A non-empty req.Selector captures only the first matching
// element; otherwise the viewport, or the whole page when req.FullPage is set.
func (s *Session) Screenshot(ctx context.Context, req ScreenshotRequest, opts ...CallOption) (string, error) {
	cfg := s.resolve(opts)

	page, err := s.activePage()
	if err != nil {
		return "", err
	}

	var data []byte
	if req.Selector != "" {
		element, err := queryOne(ctx, page, req.Selector)
		if err != nil {
			cfg.sink.Errorf("Error capturing screenshot: %v", err)
			return "", wrapLookup("capturing screenshot", err)
		}
		data, err = element.Screenshot(ctx)
		if err != nil {
			cfg.sink.Errorf("Error capturing screenshot: %v", err)
			return "", engineError("capturing screenshot", err)
		}
	} else {
		data, err = page.Screenshot(ctx, ScreenshotOptions{FullPage: req.FullPage})
		if err != nil {
			cfg.sink.Errorf("Error capturing screenshot: %v", err)
			return "", engineError("capturing screenshot", err)
		}
	}

	mode := "viewport"
	switch {
	case req.Selector != "":
		mode = "element " + req.Selector
	case req.FullPage:
		mode = "full page"
	}
	cfg.sink.Infof("Screenshot captured: %s", mode)

	return base64.StdEncoding.EncodeToString(data), nil
}
