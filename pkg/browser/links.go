package browser

import (
	"context"
	"fmt"
)

// LinksScript collects the resolved href of every anchor in document order.
const LinksScript = `() => Array.from(document.querySelectorAll('a')).map(link => link.href)`

// Links returns the absolute href of every anchor on the current page in
// document order. Duplicates are kept.
func (s *Session) Links(ctx context.Context, opts ...CallOption) ([]string, error) {
	cfg := s.resolve(opts)

	page, err := s.activePage()
	if err != nil {
		return nil, err
	}

	result, err := page.Evaluate(ctx, LinksScript)
	if err != nil {
		cfg.sink.Errorf("Error extracting links: %v", err)
		return nil, engineError("extracting links", err)
	}

	links, err := toStrings(result)
	if err != nil {
		cfg.sink.Errorf("Error extracting links: %v", err)
		return nil, engineError("extracting links", err)
	}

	cfg.sink.Infof("Extracted %d links from the page", len(links))
	return links, nil
}

// toStrings converts a decoded script result into a string slice.
func toStrings(v any) ([]string, error) {
	switch items := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for i, item := range items {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("link %d: expected string, got %T", i, item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an array of links, got %T", v)
	}
}
