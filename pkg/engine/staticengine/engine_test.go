package staticengine_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/engine/staticengine"
	"github.com/entrhq/mcp-web-browser/pkg/security/urlguard"
)

const indexHTML = `<!DOCTYPE html>
<html>
<head><title> Index </title><script>var x = 1;</script></head>
<body>
  <h1>Welcome</h1>
  <p>first</p>
  <p>second</p>
  <div style="display: none">secret</div>
  <a id="next" href="/next">next</a>
  <a href="https://other.test/page">other</a>
  <a name="anchor">no href</a>
  <form id="search" action="/search">
    <input id="q" name="q" type="text">
    <input type="hidden" name="lang" value="en">
    <button id="go" type="submit">Go</button>
  </form>
  <form id="login" action="/login" method="post">
    <input id="user" name="user">
    <input type="checkbox" name="remember" checked>
    <input id="login-submit" type="submit" name="action" value="signin">
  </form>
  <textarea id="notes">old</textarea>
  <span id="plain">plain</span>
</body>
</html>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexHTML)
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Next</title></head><body><h1>Next page</h1></body></html>`)
	})
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><base href="/base/"></head><body><a href="child">c</a><a href="">self</a></body></html>`)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><h1>%s %s</h1></body></html>`, r.URL.Query().Get("q"), r.URL.Query().Get("lang"))
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		fmt.Fprintf(w, `<html><body><h1>%s %s %s</h1></body></html>`,
			r.PostForm.Get("user"), r.PostForm.Get("remember"), r.PostForm.Get("action"))
	})
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		fmt.Fprint(w, `<html><body>set</body></html>`)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		value := "none"
		if err == nil {
			value = c.Value
		}
		fmt.Fprintf(w, `<html><body><h1>%s</h1></body></html>`, value)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<html><body><h1>Not Found</h1></body></html>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newSession(t *testing.T) *browser.Session {
	t.Helper()
	s := browser.NewSession(staticengine.NewDriver(staticengine.Options{}), browser.DefaultOptions())
	t.Cleanup(s.Cleanup)
	return s
}

func TestBrowseTo(t *testing.T) {
	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	html, err := s.BrowseTo(ctx, srv.URL+"/")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Welcome</h1>")
	assert.Equal(t, srv.URL+"/", s.CurrentURL())

	// non-2xx responses still load, as they do in a browser
	html, err = s.BrowseTo(ctx, srv.URL+"/missing")
	require.NoError(t, err)
	assert.Contains(t, html, "Not Found")
}

func TestBrowseTo_Failures(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	_, err := s.BrowseTo(ctx, "ftp://example.test/file")
	require.Error(t, err)
	assert.True(t, browser.IsEngineError(err))
	assert.Contains(t, err.Error(), `unsupported url scheme "ftp"`)

	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err = s.BrowseTo(ctx, addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error navigating to "+addr)
}

func TestExtractText(t *testing.T) {
	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	_, err := s.BrowseTo(ctx, srv.URL)
	require.NoError(t, err)

	body, err := s.ExtractText(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome\nfirst\nsecond")
	assert.NotContains(t, body, "var x")
	assert.NotContains(t, body, "secret")

	text, err := s.ExtractText(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", text)

	text, err = s.ExtractText(ctx, ".nothing")
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = s.ExtractText(ctx, "p[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid selector")
}

func TestLinks(t *testing.T) {
	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	_, err := s.BrowseTo(ctx, srv.URL)
	require.NoError(t, err)

	links, err := s.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/next", "https://other.test/page", ""}, links)

	_, err = s.BrowseTo(ctx, srv.URL+"/docs/")
	require.NoError(t, err)

	links, err = s.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/base/child", srv.URL + "/base/"}, links)
}

func TestClick(t *testing.T) {
	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	_, err := s.BrowseTo(ctx, srv.URL)
	require.NoError(t, err)

	msg, err := s.Click(ctx, "#plain")
	require.NoError(t, err)
	assert.Equal(t, "Successfully clicked element: #plain", msg)
	assert.Equal(t, srv.URL, s.CurrentURL())

	_, err = s.Click(ctx, "#next")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/next", s.CurrentURL())

	text, err := s.ExtractText(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Next page", text)

	_, err = s.Click(ctx, "#next")
	assert.True(t, browser.IsElementNotFound(err))
}

func TestFormSubmission(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	t.Run("get form", func(t *testing.T) {
		s := newSession(t)
		_, err := s.BrowseTo(ctx, srv.URL)
		require.NoError(t, err)

		_, err = s.InputText(ctx, "#q", "gophers")
		require.NoError(t, err)
		_, err = s.Click(ctx, "#go")
		require.NoError(t, err)

		text, err := s.ExtractText(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, "gophers en", text)
	})

	t.Run("post form", func(t *testing.T) {
		s := newSession(t)
		_, err := s.BrowseTo(ctx, srv.URL)
		require.NoError(t, err)

		_, err = s.InputText(ctx, "#user", "ada")
		require.NoError(t, err)
		_, err = s.Click(ctx, "#login-submit")
		require.NoError(t, err)

		text, err := s.ExtractText(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, "ada on signin", text)
	})
}

func TestInputText(t *testing.T) {
	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	_, err := s.BrowseTo(ctx, srv.URL)
	require.NoError(t, err)

	msg, err := s.InputText(ctx, "#notes", "new notes")
	require.NoError(t, err)
	assert.Equal(t, "Successfully input text into element: #notes", msg)

	text, err := s.ExtractText(ctx, "#notes")
	require.NoError(t, err)
	assert.Equal(t, "new notes", text)

	_, err = s.InputText(ctx, "#plain", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error inputting text")
}

func TestScreenshotUnsupported(t *testing.T) {
	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	_, err := s.BrowseTo(ctx, srv.URL)
	require.NoError(t, err)

	_, err = s.Screenshot(ctx, browser.ScreenshotRequest{FullPage: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, staticengine.ErrUnsupported))

	_, err = s.Screenshot(ctx, browser.ScreenshotRequest{Selector: "h1"})
	assert.True(t, errors.Is(err, staticengine.ErrUnsupported))
}

func TestCookiesPersistWithinContext(t *testing.T) {
	srv := newServer(t)
	s := newSession(t)
	ctx := context.Background()

	_, err := s.BrowseTo(ctx, srv.URL+"/set")
	require.NoError(t, err)
	_, err = s.BrowseTo(ctx, srv.URL+"/echo")
	require.NoError(t, err)

	text, err := s.ExtractText(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "abc", text)

	// a fresh context after cleanup starts without cookies
	s.Cleanup()
	_, err = s.BrowseTo(ctx, srv.URL+"/echo")
	require.NoError(t, err)

	text, err = s.ExtractText(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "none", text)
}

func TestIgnoreHTTPSErrors(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>secure</body></html>`)
	}))
	defer srv.Close()
	ctx := context.Background()

	t.Run("ignored", func(t *testing.T) {
		s := newSession(t)
		html, err := s.BrowseTo(ctx, srv.URL)
		require.NoError(t, err)
		assert.Contains(t, html, "secure")
	})

	t.Run("enforced", func(t *testing.T) {
		opts := browser.DefaultOptions()
		opts.Context.IgnoreHTTPSErrors = false
		s := browser.NewSession(staticengine.NewDriver(staticengine.Options{}), opts)
		defer s.Cleanup()

		_, err := s.BrowseTo(ctx, srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "certificate")
	})
}

func TestPolicyAppliesToEveryRequest(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>blocked</h1></body></html>`)
	}))
	t.Cleanup(blocked.Close)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a id="out" href="%s/x">out</a><a id="in" href="/in">in</a></body></html>`, blocked.URL)
	})
	mux.HandleFunc("/in", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>in</h1></body></html>`)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/in", http.StatusFound)
	})
	mux.HandleFunc("/escape", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, blocked.URL+"/x", http.StatusFound)
	})
	allowed := httptest.NewServer(mux)
	t.Cleanup(allowed.Close)

	guard, err := urlguard.New(urlguard.Config{Denied: []string{blocked.URL + "/**"}})
	require.NoError(t, err)

	opts := browser.DefaultOptions()
	opts.Policy = guard
	s := browser.NewSession(staticengine.NewDriver(staticengine.Options{Policy: guard}), opts)
	t.Cleanup(s.Cleanup)
	ctx := context.Background()

	// redirects within the allowed host are followed
	_, err = s.BrowseTo(ctx, allowed.URL+"/hop")
	require.NoError(t, err)
	assert.Equal(t, allowed.URL+"/in", s.CurrentURL())

	_, err = s.BrowseTo(ctx, allowed.URL+"/escape")
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrURLNotAllowed)

	_, err = s.BrowseTo(ctx, allowed.URL)
	require.NoError(t, err)

	_, err = s.Click(ctx, "#out")
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrURLNotAllowed)
	assert.Equal(t, allowed.URL, s.CurrentURL())

	_, err = s.Click(ctx, "#in")
	require.NoError(t, err)
	assert.Equal(t, allowed.URL+"/in", s.CurrentURL())
}

func TestClosedPage(t *testing.T) {
	driver := staticengine.NewDriver(staticengine.Options{})
	ctx := context.Background()

	engine, err := driver.Start(ctx)
	require.NoError(t, err)
	b, err := engine.Launch(ctx, browser.LaunchOptions{Headless: true})
	require.NoError(t, err)
	bc, err := b.NewContext(ctx, browser.ContextOptions{})
	require.NoError(t, err)
	page, err := bc.NewPage(ctx)
	require.NoError(t, err)

	assert.Equal(t, "about:blank", page.URL())
	require.NoError(t, page.Close())

	_, err = page.Content(ctx)
	assert.ErrorIs(t, err, staticengine.ErrPageClosed)

	require.NoError(t, bc.Close())
	require.NoError(t, b.Close())
	require.NoError(t, engine.Stop())
}
