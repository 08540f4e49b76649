package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// State describes where a Session is in its lifecycle.
type State int

const (
	// StateUninitialized means no engine, browser or context exists
	StateUninitialized State = iota

	// StateReady means the engine, browser and context exist but no page is open
	StateReady

	// StateActive means a page is open and page operations may run
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// runtime is the engine, browser and context triple. It is stored only once
// all three exist, so a Session never holds a partial triple.
type runtime struct {
	engine  Engine
	browser Browser
	context BrowserContext
}

// Session owns the single browser runtime and the current page.
//
// Operations must be delivered one at a time; the MCP server does this with a
// mutex around every tool call. Close is the exception: it may run while an
// operation is in flight, and that operation then fails with ErrSessionClosed
// instead of storing new handles.
type Session struct {
	driver Driver
	opts   Options
	logger Sink

	// mu guards the handles and closed, never engine calls
	mu     sync.Mutex
	rt     *runtime
	page   Page
	closed bool
}

// NewSession creates a session that launches its browser through driver on
// first use. Zero-valued navigation settings in opts fall back to defaults.
func NewSession(driver Driver, opts Options) *Session {
	if opts.WaitUntil == "" {
		opts.WaitUntil = DefaultWaitUntil
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}

	var logger Sink = nopSink{}
	if opts.Logger != nil {
		logger = opts.Logger
	}

	return &Session{
		driver: driver,
		opts:   opts,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.rt == nil:
		return StateUninitialized
	case s.page == nil:
		return StateReady
	default:
		return StateActive
	}
}

// HasPage reports whether a current page exists.
func (s *Session) HasPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page != nil
}

// CurrentURL returns the URL of the current page, or "" when there is none.
func (s *Session) CurrentURL() string {
	page, err := s.activePage()
	if err != nil {
		return ""
	}
	return page.URL()
}

// EnsureBrowser returns the shared browser and context, starting the engine,
// launching the browser and creating the context on the first call.
//
// If any step fails, whatever was already created is released and nothing is
// retained, so the next call runs the full sequence again.
func (s *Session) EnsureBrowser(ctx context.Context) (Browser, BrowserContext, error) {
	s.mu.Lock()
	rt, closed := s.rt, s.closed
	s.mu.Unlock()
	if closed {
		return nil, nil, ErrSessionClosed
	}
	if rt != nil {
		return rt.browser, rt.context, nil
	}

	s.logger.Infof("Starting %s engine", s.driver.Name())

	engine, err := s.driver.Start(ctx)
	if err != nil {
		return nil, nil, engineError("starting engine", err)
	}

	browser, err := engine.Launch(ctx, s.opts.Launch)
	if err != nil {
		if stopErr := engine.Stop(); stopErr != nil {
			s.logger.Warnf("Failed to stop engine after launch failure: %v", stopErr)
		}
		return nil, nil, engineError("launching browser", err)
	}

	bctx, err := browser.NewContext(ctx, s.opts.Context)
	if err != nil {
		if closeErr := browser.Close(); closeErr != nil {
			s.logger.Warnf("Failed to close browser after context failure: %v", closeErr)
		}
		if stopErr := engine.Stop(); stopErr != nil {
			s.logger.Warnf("Failed to stop engine after context failure: %v", stopErr)
		}
		return nil, nil, engineError("creating browser context", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		release(s.logger, []closer{
			{"browser context", bctx.Close},
			{"browser", browser.Close},
			{"engine", engine.Stop},
		})
		return nil, nil, ErrSessionClosed
	}
	s.rt = &runtime{engine: engine, browser: browser, context: bctx}
	s.mu.Unlock()

	s.logger.Infof("Browser ready (headless=%t, ignore_https_errors=%t)",
		s.opts.Launch.Headless, s.opts.Context.IgnoreHTTPSErrors)
	return browser, bctx, nil
}

// CloseCurrentPage closes the current page, if any. Close errors are logged
// and dropped; the page is unset either way.
func (s *Session) CloseCurrentPage() {
	s.mu.Lock()
	page := s.page
	s.page = nil
	s.mu.Unlock()

	if page == nil {
		return
	}
	if err := page.Close(); err != nil {
		s.logger.Debugf("Ignoring error closing page: %v", err)
	}
}

// setPage makes page current unless the session was closed meanwhile, in
// which case page is closed and ErrSessionClosed returned.
func (s *Session) setPage(page Page) error {
	s.mu.Lock()
	if !s.closed {
		s.page = page
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := page.Close(); err != nil {
		s.logger.Debugf("Ignoring error closing page: %v", err)
	}
	return ErrSessionClosed
}

// closer pairs a resource name with its release function.
type closer struct {
	name  string
	close func() error
}

// Cleanup releases the page, context, browser and engine in that order. Each
// step runs regardless of whether earlier steps failed or their resource
// exists. Failures are logged, never returned, and every handle is unset
// afterwards. Cleanup may be called any number of times, and a later
// operation starts a new browser.
func (s *Session) Cleanup() {
	s.mu.Lock()
	page, rt := s.page, s.rt
	s.page = nil
	s.rt = nil
	s.mu.Unlock()

	var closers []closer
	if page != nil {
		closers = append(closers, closer{"page", page.Close})
	}
	if rt != nil {
		if rt.context != nil {
			closers = append(closers, closer{"browser context", rt.context.Close})
		}
		if rt.browser != nil {
			closers = append(closers, closer{"browser", rt.browser.Close})
		}
		if rt.engine != nil {
			closers = append(closers, closer{"engine", rt.engine.Stop})
		}
	}

	if release(s.logger, closers) && len(closers) > 0 {
		s.logger.Infof("Browser resources released")
	}
}

// Close marks the session closed and releases it like Cleanup. Operations
// that start or finish after Close fail with ErrSessionClosed and leave no
// handles behind.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Cleanup()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// release runs every closer in order and logs the joined failures. It reports
// whether all of them succeeded.
func release(logger Sink, closers []closer) bool {
	var errs []error
	for _, c := range closers {
		if err := closeSafely(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Errorf("Error during cleanup: %v", err)
		return false
	}
	return true
}

// closeSafely runs one closer, converting a panic into an error so a
// misbehaving engine cannot abort the remaining steps.
func closeSafely(c closer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("closing %s: panic: %v", c.name, r)
		}
	}()
	if closeErr := c.close(); closeErr != nil {
		return fmt.Errorf("closing %s: %w", c.name, closeErr)
	}
	return nil
}

// activePage returns the current page or ErrNoActivePage.
func (s *Session) activePage() (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return nil, ErrNoActivePage
	}
	return s.page, nil
}
