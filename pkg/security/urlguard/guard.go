// Package urlguard restricts which URLs the browser may navigate to using
// allow and deny glob patterns.
//
// Patterns are matched against two forms of the target: the host alone
// ("docs.example.com") and the normalized URL without query or fragment
// ("https://docs.example.com/guide"). A single "*" does not cross a "/",
// "**" does. Deny patterns take precedence; with no allow patterns every URL
// that is not denied is allowed.
//
// The guard covers navigation targets only. The static engine also consults
// it for redirects and followed links; the Playwright and chromedp engines
// check just the URL passed to browse_to, so a redirect or in-page navigation
// there can reach a host the guard would deny.
package urlguard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// Config holds the guard's pattern lists.
type Config struct {
	Allowed []string
	Denied  []string

	// Schemes restricts navigation to these URL schemes; empty allows any
	Schemes []string
}

// Guard decides whether a URL may be visited.
type Guard struct {
	allowed []glob.Glob
	denied  []glob.Glob
	schemes map[string]bool
}

// New compiles the configured patterns.
func New(cfg Config) (*Guard, error) {
	g := &Guard{schemes: make(map[string]bool)}

	for _, pattern := range cfg.Allowed {
		compiled, err := compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed pattern '%s': %w", pattern, err)
		}
		g.allowed = append(g.allowed, compiled)
	}

	for _, pattern := range cfg.Denied {
		compiled, err := compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied pattern '%s': %w", pattern, err)
		}
		g.denied = append(g.denied, compiled)
	}

	for _, s := range cfg.Schemes {
		g.schemes[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return g, nil
}

func compile(pattern string) (glob.Glob, error) {
	return glob.Compile(strings.ToLower(strings.TrimSpace(pattern)), '/')
}

// Allow reports whether rawURL passes the guard.
func (g *Guard) Allow(rawURL string) bool {
	return g.Check(rawURL) == nil
}

// Check returns nil if rawURL passes the guard, or an error naming the rule
// that rejected it.
func (g *Guard) Check(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("unparseable url: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if len(g.schemes) > 0 && !g.schemes[scheme] {
		return fmt.Errorf("scheme %q is not allowed", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	subjects := []string{host, normalize(scheme, u)}

	// Opaque URLs such as data: and about:blank have no host to report
	name := host
	if name == "" {
		name = scheme + ":"
	}

	for _, pattern := range g.denied {
		if matchAny(pattern, subjects) {
			return fmt.Errorf("%s matches a denied pattern", name)
		}
	}

	if len(g.allowed) == 0 {
		return nil
	}

	for _, pattern := range g.allowed {
		if matchAny(pattern, subjects) {
			return nil
		}
	}
	return fmt.Errorf("%s does not match any allowed pattern", name)
}

func normalize(scheme string, u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + strings.ToLower(u.Host) + path
}

func matchAny(pattern glob.Glob, subjects []string) bool {
	for _, s := range subjects {
		if pattern.Match(s) {
			return true
		}
	}
	return false
}
