package browser

import (
	"context"
	"fmt"
)

// InputText replaces the value of the first element matching selector with
// text and returns a confirmation naming the selector.
func (s *Session) InputText(ctx context.Context, selector, text string, opts ...CallOption) (string, error) {
	cfg := s.resolve(opts)

	page, err := s.activePage()
	if err != nil {
		return "", err
	}

	element, err := queryOne(ctx, page, selector)
	if err != nil {
		cfg.sink.Errorf("Error inputting text: %v", err)
		return "", wrapLookup("inputting text", err)
	}

	if err := element.Fill(ctx, text); err != nil {
		cfg.sink.Errorf("Error inputting text: %v", err)
		return "", engineError("inputting text", err)
	}

	cfg.sink.Infof("Input text into element: %s", selector)
	return fmt.Sprintf("Successfully input text into element: %s", selector), nil
}
