// Package browser implements a single shared headless browser session and
// the page operations exposed as MCP tools.
//
// # Architecture
//
// The package is built around three concepts:
//
// 1. Driver/Engine/Browser/BrowserContext/Page/Element: capability interfaces
// implemented by an automation engine (see pkg/engine)
// 2. Session: exclusive owner of one engine, one browser, one context and at
// most one current page
// 3. Operations: BrowseTo, ExtractText, Click, Screenshot, Links and InputText
//
// # Session Lifecycle
//
// Resources are created top-down on demand and released bottom-up:
//
//  1. Uninitialized: nothing exists
//  2. Ready: the first BrowseTo starts the engine, launches the browser and
//     creates a context that ignores certificate errors
//  3. Active: BrowseTo opened a page; every later BrowseTo closes it before
//     opening the next one
//  4. Cleanup releases page, context, browser and engine and returns the
//     session to Uninitialized
//  5. Close does the same and refuses every later operation with
//     ErrSessionClosed
//
// Page operations fail with ErrNoActivePage while no page is open, before
// any engine call is made.
//
// # Concurrency
//
// The invocation layer must deliver one operation at a time. A short internal
// lock guards the handles so Close can run while an operation is still
// blocked in the engine; that operation then fails with ErrSessionClosed.
//
// # Example Usage
//
//	session := browser.NewSession(pwengine.NewDriver(pwengine.Options{}), browser.DefaultOptions())
//	defer session.Cleanup()
//
//	html, err := session.BrowseTo(ctx, "https://example.com")
//	text, err := session.ExtractText(ctx, "h1")
//	links, err := session.Links(ctx)
package browser
