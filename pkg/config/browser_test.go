package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/browser/browsertest"
)

func TestBrowserSection_Defaults(t *testing.T) {
	s := NewBrowserSection()
	b := s.Settings()

	if b.Engine != EnginePlaywright {
		t.Errorf("expected playwright engine, got %s", b.Engine)
	}
	if !b.Headless || !b.IgnoreHTTPSErrors {
		t.Error("expected headless with https errors ignored by default")
	}
	if b.NavigationTimeout != 30*time.Second || b.WaitUntil != browser.WaitUntilNetworkIdle {
		t.Errorf("unexpected navigation defaults: %v %s", b.NavigationTimeout, b.WaitUntil)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestBrowserSection_SetData(t *testing.T) {
	s := NewBrowserSection()

	err := s.SetData(map[string]interface{}{
		"engine":              "static",
		"headless":            false,
		"ignore_https_errors": false,
		"navigation_timeout":  "5s",
		"wait_until":          "load",
		"viewport_width":      float64(800),
		"viewport_height":     600,
		"install_driver":      true,
		"allowed_urls":        []interface{}{"*.example.com"},
		"denied_urls":         "bad.example.com, worse.example.com",
		"unknown_key":         "ignored",
	})
	if err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	b := s.Settings()
	if b.Engine != EngineStatic || b.Headless || b.IgnoreHTTPSErrors || !b.InstallDriver {
		t.Errorf("flags not applied: %+v", b)
	}
	if b.NavigationTimeout != 5*time.Second || b.WaitUntil != browser.WaitUntilLoad {
		t.Errorf("navigation not applied: %+v", b)
	}
	if b.ViewportWidth != 800 || b.ViewportHeight != 600 {
		t.Errorf("viewport not applied: %dx%d", b.ViewportWidth, b.ViewportHeight)
	}
	if len(b.AllowedURLs) != 1 || len(b.DeniedURLs) != 2 || b.DeniedURLs[1] != "worse.example.com" {
		t.Errorf("url lists not applied: %v %v", b.AllowedURLs, b.DeniedURLs)
	}
}

func TestBrowserSection_SetDataIsAtomic(t *testing.T) {
	s := NewBrowserSection()

	err := s.SetData(map[string]interface{}{
		"engine":   "chromedp",
		"headless": "yes",
	})
	if err == nil {
		t.Fatal("expected type error for headless")
	}
	if s.Settings().Engine != EnginePlaywright {
		t.Error("a rejected SetData must not change the section")
	}
}

func TestBrowserSection_NavigationTimeoutForms(t *testing.T) {
	tests := []struct {
		value interface{}
		want  time.Duration
	}{
		{"45s", 45 * time.Second},
		{float64(1500), 1500 * time.Millisecond},
		{2000, 2 * time.Second},
	}
	for _, tt := range tests {
		s := NewBrowserSection()
		if err := s.SetData(map[string]interface{}{"navigation_timeout": tt.value}); err != nil {
			t.Fatalf("SetData(%v) failed: %v", tt.value, err)
		}
		if got := s.Settings().NavigationTimeout; got != tt.want {
			t.Errorf("navigation_timeout %v: expected %v, got %v", tt.value, tt.want, got)
		}
	}
}

func TestBrowserSection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr string
	}{
		{"unknown engine", map[string]interface{}{"engine": "netscape"}, "unknown engine"},
		{"zero timeout", map[string]interface{}{"navigation_timeout": "0s"}, "navigation_timeout"},
		{"zero viewport", map[string]interface{}{"viewport_width": 0}, "viewport"},
		{"bad pattern", map[string]interface{}{"allowed_urls": []interface{}{"[oops"}}, "invalid allowed pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			if err := s.SetData(tt.data); err != nil {
				t.Fatalf("SetData failed: %v", err)
			}
			err := s.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	s := NewBrowserSection()
	if err := s.SetData(map[string]interface{}{"wait_until": "eventually"}); err == nil {
		t.Error("invalid wait_until should be rejected by SetData")
	}
}

func TestBrowserSection_DataRoundTrip(t *testing.T) {
	s := NewBrowserSection()
	s.SetEngine(EngineChromedp)
	s.SetHeadless(false)

	other := NewBrowserSection()
	if err := other.SetData(s.Data()); err != nil {
		t.Fatalf("SetData(Data()) failed: %v", err)
	}
	if other.Settings().Engine != EngineChromedp || other.Settings().Headless {
		t.Errorf("round trip lost values: %+v", other.Settings())
	}

	other.Reset()
	if other.Settings().Engine != EnginePlaywright {
		t.Error("Reset should restore defaults")
	}
}

func TestBrowserSettings_SessionOptions(t *testing.T) {
	b := defaultBrowserSettings()
	b.Headless = false
	b.IgnoreHTTPSErrors = false
	b.NavigationTimeout = 10 * time.Second
	b.WaitUntil = browser.WaitUntilDOMContentLoaded

	opts := b.SessionOptions()
	if opts.Launch.Headless || opts.Context.IgnoreHTTPSErrors {
		t.Error("launch and context flags not carried over")
	}
	if opts.NavigationTimeout != 10*time.Second || opts.WaitUntil != browser.WaitUntilDOMContentLoaded {
		t.Error("navigation settings not carried over")
	}
	if opts.Context.Viewport == nil || opts.Context.Viewport.Width != browser.DefaultViewportWidth {
		t.Error("viewport not carried over")
	}

	b.DeniedURLs = []string{"evil.test"}
	guard, err := b.Guard()
	if err != nil {
		t.Fatalf("Guard failed: %v", err)
	}
	if guard.Allow("https://evil.test/") {
		t.Error("guard should deny evil.test")
	}
}

func TestBrowserSettings_DefaultGuardAllowsAnyScheme(t *testing.T) {
	guard, err := NewBrowserSection().Settings().Guard()
	if err != nil {
		t.Fatalf("Guard failed: %v", err)
	}
	for _, u := range []string{"file:///tmp/page.html", "data:text/html,<h1>hi</h1>", "about:blank", "https://example.com"} {
		if err := guard.Check(u); err != nil {
			t.Errorf("default guard refused %s: %v", u, err)
		}
	}

	const dataURL = "data:text/html,<h1>hi</h1>"
	driver := browsertest.NewDriver().AddPage(dataURL, browsertest.Fixture{HTML: "<h1>hi</h1>"})
	opts := browser.DefaultOptions()
	opts.Policy = guard
	session := browser.NewSession(driver, opts)
	defer session.Cleanup()

	html, err := session.BrowseTo(context.Background(), dataURL)
	if err != nil {
		t.Fatalf("BrowseTo(%s) failed: %v", dataURL, err)
	}
	if !strings.Contains(html, "<h1>hi</h1>") {
		t.Errorf("unexpected content: %s", html)
	}
}

func TestBrowserSection_AllowedSchemes(t *testing.T) {
	s := NewBrowserSection()
	if err := s.SetData(map[string]interface{}{"allowed_schemes": []interface{}{"http", "https"}}); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	b := s.Settings()
	if len(b.AllowedSchemes) != 2 || b.AllowedSchemes[1] != "https" {
		t.Fatalf("allowed_schemes not applied: %v", b.AllowedSchemes)
	}
	if got, ok := s.Data()["allowed_schemes"].([]interface{}); !ok || len(got) != 2 {
		t.Errorf("allowed_schemes not reported by Data: %v", s.Data()["allowed_schemes"])
	}

	guard, err := b.Guard()
	if err != nil {
		t.Fatalf("Guard failed: %v", err)
	}
	if err := guard.Check("file:///etc/passwd"); err == nil {
		t.Error("file scheme should be refused once allowed_schemes is set")
	}
	if err := guard.Check("https://example.com"); err != nil {
		t.Errorf("https should pass: %v", err)
	}
}
