package browser

import (
	"context"
	"fmt"
)

// Click clicks the first element matching selector and returns a
// confirmation naming the selector.
func (s *Session) Click(ctx context.Context, selector string, opts ...CallOption) (string, error) {
	cfg := s.resolve(opts)

	page, err := s.activePage()
	if err != nil {
		return "", err
	}

	element, err := queryOne(ctx, page, selector)
	if err != nil {
		cfg.sink.Errorf("Error clicking element: %v", err)
		return "", wrapLookup("clicking element", err)
	}

	if err := element.Click(ctx); err != nil {
		cfg.sink.Errorf("Error clicking element: %v", err)
		return "", engineError("clicking element", err)
	}

	cfg.sink.Infof("Clicked element: %s", selector)
	return fmt.Sprintf("Successfully clicked element: %s", selector), nil
}

// queryOne resolves selector to its first match. A miss is reported as an
// ElementNotFoundError; an engine failure is returned unwrapped.
func queryOne(ctx context.Context, page Page, selector string) (Element, error) {
	element, err := page.Query(ctx, selector)
	if err != nil {
		return nil, err
	}
	if element == nil {
		return nil, &ElementNotFoundError{Selector: selector}
	}
	return element, nil
}

// wrapLookup keeps lookup errors as they are and wraps everything else as an
// engine error for op.
func wrapLookup(op string, err error) error {
	if IsElementNotFound(err) {
		return err
	}
	return engineError(op, err)
}
