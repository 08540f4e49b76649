package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/security/urlguard"
)

const (
	// SectionIDBrowser is the identifier for the browser section
	SectionIDBrowser = "browser"

	EnginePlaywright = "playwright"
	EngineChromedp   = "chromedp"
	EngineStatic     = "static"

	defaultEngine            = EnginePlaywright
	defaultHeadless          = true
	defaultIgnoreHTTPSErrors = true
	defaultInstallDriver     = false
)

// Engines lists the accepted engine names.
var Engines = []string{EnginePlaywright, EngineChromedp, EngineStatic}

// BrowserSettings is a snapshot of the browser section.
type BrowserSettings struct {
	Engine            string
	Headless          bool
	IgnoreHTTPSErrors bool
	NavigationTimeout time.Duration
	WaitUntil         browser.WaitUntil
	ViewportWidth     int
	ViewportHeight    int
	InstallDriver     bool
	AllowedURLs       []string
	DeniedURLs        []string
	AllowedSchemes    []string
}

// SessionOptions converts the settings into session options. Policy and
// Logger are left for the caller to wire.
func (b BrowserSettings) SessionOptions() browser.Options {
	opts := browser.DefaultOptions()
	opts.Launch.Headless = b.Headless
	opts.Context.IgnoreHTTPSErrors = b.IgnoreHTTPSErrors
	if b.ViewportWidth > 0 && b.ViewportHeight > 0 {
		opts.Context.Viewport = &browser.Viewport{Width: b.ViewportWidth, Height: b.ViewportHeight}
	}
	if b.WaitUntil != "" {
		opts.WaitUntil = b.WaitUntil
	}
	if b.NavigationTimeout > 0 {
		opts.NavigationTimeout = b.NavigationTimeout
	}
	return opts
}

// Guard builds the URL guard described by the allow, deny and scheme lists.
// With all three empty every URL is allowed.
func (b BrowserSettings) Guard() (*urlguard.Guard, error) {
	return urlguard.New(urlguard.Config{
		Allowed: b.AllowedURLs,
		Denied:  b.DeniedURLs,
		Schemes: b.AllowedSchemes,
	})
}

// BrowserSection configures the engine and the shared browser session.
type BrowserSection struct {
	settings BrowserSettings
	mu       sync.RWMutex
}

func defaultBrowserSettings() BrowserSettings {
	return BrowserSettings{
		Engine:            defaultEngine,
		Headless:          defaultHeadless,
		IgnoreHTTPSErrors: defaultIgnoreHTTPSErrors,
		NavigationTimeout: browser.DefaultNavigationTimeout,
		WaitUntil:         browser.DefaultWaitUntil,
		ViewportWidth:     browser.DefaultViewportWidth,
		ViewportHeight:    browser.DefaultViewportHeight,
		InstallDriver:     defaultInstallDriver,
	}
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{settings: defaultBrowserSettings()}
}

func (s *BrowserSection) ID() string { return SectionIDBrowser }

func (s *BrowserSection) Title() string { return "Browser" }

func (s *BrowserSection) Description() string {
	return "Configure the browser engine, navigation defaults and which URLs may be visited."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.settings
	return map[string]interface{}{
		"engine":              b.Engine,
		"headless":            b.Headless,
		"ignore_https_errors": b.IgnoreHTTPSErrors,
		"navigation_timeout":  b.NavigationTimeout.String(),
		"wait_until":          string(b.WaitUntil),
		"viewport_width":      b.ViewportWidth,
		"viewport_height":     b.ViewportHeight,
		"install_driver":      b.InstallDriver,
		"allowed_urls":        toInterfaces(b.AllowedURLs),
		"denied_urls":         toInterfaces(b.DeniedURLs),
		"allowed_schemes":     toInterfaces(b.AllowedSchemes),
	}
}

// SetData updates the configuration from the provided data. The section is
// left unchanged if any value is invalid.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	var err error
	for key, value := range data {
		switch key {
		case "engine":
			next.Engine, err = asString(key, value)
		case "headless":
			next.Headless, err = asBool(key, value)
		case "ignore_https_errors":
			next.IgnoreHTTPSErrors, err = asBool(key, value)
		case "navigation_timeout":
			next.NavigationTimeout, err = asDuration(key, value)
		case "wait_until":
			var raw string
			if raw, err = asString(key, value); err == nil {
				next.WaitUntil, err = browser.ParseWaitUntil(raw)
			}
		case "viewport_width":
			next.ViewportWidth, err = asInt(key, value)
		case "viewport_height":
			next.ViewportHeight, err = asInt(key, value)
		case "install_driver":
			next.InstallDriver, err = asBool(key, value)
		case "allowed_urls":
			next.AllowedURLs, err = asStringSlice(key, value)
		case "denied_urls":
			next.DeniedURLs, err = asStringSlice(key, value)
		case "allowed_schemes":
			next.AllowedSchemes, err = asStringSlice(key, value)
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
		if err != nil {
			return err
		}
	}

	s.settings = next
	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.settings
	if !isEngine(b.Engine) {
		return fmt.Errorf("unknown engine %q, expected one of %v", b.Engine, Engines)
	}
	if _, err := browser.ParseWaitUntil(string(b.WaitUntil)); err != nil {
		return err
	}
	if b.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation_timeout must be positive, got %v", b.NavigationTimeout)
	}
	if b.ViewportWidth <= 0 || b.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", b.ViewportWidth, b.ViewportHeight)
	}
	if _, err := b.Guard(); err != nil {
		return err
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = defaultBrowserSettings()
}

// Settings returns a copy of the current settings.
func (s *BrowserSection) Settings() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.settings
	b.AllowedURLs = append([]string(nil), b.AllowedURLs...)
	b.DeniedURLs = append([]string(nil), b.DeniedURLs...)
	b.AllowedSchemes = append([]string(nil), b.AllowedSchemes...)
	return b
}

// SetEngine overrides the engine name.
func (s *BrowserSection) SetEngine(engine string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Engine = engine
}

// SetHeadless overrides headless mode.
func (s *BrowserSection) SetHeadless(headless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Headless = headless
}

func isEngine(name string) bool {
	for _, e := range Engines {
		if e == name {
			return true
		}
	}
	return false
}
