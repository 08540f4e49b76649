// Package browser binds the page operations of a shared browser session to
// callable tools.
//
// # Tools
//
// Every tool acts on the one session passed to NewToolRegistry:
//
//   - browse_to: open a fresh page, navigate it and return the HTML
//   - extract_text_content: visible text of the page or of every selector match
//   - click_element: click the first selector match
//   - get_page_screenshots: base64 PNG of the viewport, full page or one element
//   - get_page_links: every anchor href in document order
//   - input_text: fill the first selector match
//
// All tools except browse_to fail with "no page is currently loaded" until a
// navigation has succeeded at least once.
//
// # Diagnostics
//
// The caller attaches a per-call diagnostic sink with ContextWithSink. Tools
// forward it to the session so navigation targets, titles and counts reach
// the host's log stream and never the tool result.
//
// # Example Usage
//
//	session := core.NewSession(driver, core.DefaultOptions())
//	registry := browser.NewToolRegistry(session)
//	for _, tool := range registry.RegisterTools() {
//	    result, _, err := tool.Execute(ctx, []byte(`{"url":"https://example.com"}`))
//	    ...
//	}
package browser
