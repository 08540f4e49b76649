package browser

import (
	"context"
	"strings"
)

// ExtractText returns the visible text of the current page. With an empty
// selector it returns the text of the document body; otherwise it joins the
// text of every matching element with newlines, in document order. A
// selector that matches nothing yields "".
func (s *Session) ExtractText(ctx context.Context, selector string, opts ...CallOption) (string, error) {
	cfg := s.resolve(opts)

	page, err := s.activePage()
	if err != nil {
		return "", err
	}

	if selector == "" {
		text, err := page.InnerText(ctx, "body")
		if err != nil {
			cfg.sink.Errorf("Error extracting text: %v", err)
			return "", engineError("extracting text", err)
		}
		return text, nil
	}

	elements, err := page.QueryAll(ctx, selector)
	if err != nil {
		cfg.sink.Errorf("Error extracting text: %v", err)
		return "", engineError("extracting text", err)
	}

	texts := make([]string, 0, len(elements))
	for _, el := range elements {
		text, err := el.InnerText(ctx)
		if err != nil {
			cfg.sink.Errorf("Error extracting text: %v", err)
			return "", engineError("extracting text", err)
		}
		texts = append(texts, text)
	}

	cfg.sink.Infof("Extracted text from selector: %s", selector)
	return strings.Join(texts, "\n"), nil
}
