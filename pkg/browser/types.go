package browser

import (
	"fmt"
	"time"
)

// WaitUntil names the load state a navigation waits for.
type WaitUntil string

const (
	// WaitUntilLoad waits for the load event
	WaitUntilLoad WaitUntil = "load"

	// WaitUntilDOMContentLoaded waits for the DOMContentLoaded event
	WaitUntilDOMContentLoaded WaitUntil = "domcontentloaded"

	// WaitUntilNetworkIdle waits until there are no network connections
	// for at least 500ms (default)
	WaitUntilNetworkIdle WaitUntil = "networkidle"
)

// ParseWaitUntil validates a wait state name. An empty name yields the default.
func ParseWaitUntil(s string) (WaitUntil, error) {
	switch WaitUntil(s) {
	case "":
		return DefaultWaitUntil, nil
	case WaitUntilLoad, WaitUntilDOMContentLoaded, WaitUntilNetworkIdle:
		return WaitUntil(s), nil
	default:
		return "", fmt.Errorf("invalid wait_until value: %s (must be 'load', 'domcontentloaded', or 'networkidle')", s)
	}
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// LaunchOptions configures the browser process.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool
}

// ContextOptions configures the shared browser context.
type ContextOptions struct {
	// IgnoreHTTPSErrors disables certificate validation for every page
	IgnoreHTTPSErrors bool

	// Viewport sets the page viewport size; nil keeps the engine default
	Viewport *Viewport
}

// GotoOptions configures page navigation behavior.
type GotoOptions struct {
	WaitUntil WaitUntil
	Timeout   time.Duration
}

// ScreenshotOptions configures a page capture.
type ScreenshotOptions struct {
	// FullPage captures the whole scrollable page instead of the viewport
	FullPage bool
}

// ScreenshotRequest selects what Session.Screenshot captures.
type ScreenshotRequest struct {
	FullPage bool

	// Selector limits the capture to the first matching element
	Selector string
}

// URLPolicy decides whether a navigation target is permitted. Check returns
// nil to permit rawURL, or an error describing why it is refused.
type URLPolicy interface {
	Check(rawURL string) error
}

// Options configures a Session.
type Options struct {
	Launch  LaunchOptions
	Context ContextOptions

	// WaitUntil is the load state browse_to waits for
	WaitUntil WaitUntil

	// NavigationTimeout bounds Goto; zero means DefaultNavigationTimeout
	NavigationTimeout time.Duration

	// Policy optionally restricts navigation targets
	Policy URLPolicy

	// Logger receives session diagnostics; nil discards them
	Logger Sink
}

// DefaultOptions returns the options browse_to has always used: headless,
// certificate errors ignored, wait for network idle, 30 second timeout.
func DefaultOptions() Options {
	return Options{
		Launch:            LaunchOptions{Headless: true},
		Context:           ContextOptions{IgnoreHTTPSErrors: true},
		WaitUntil:         DefaultWaitUntil,
		NavigationTimeout: DefaultNavigationTimeout,
	}
}

// Default values for session behavior
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultWaitUntil         = WaitUntilNetworkIdle
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 720
)
