package browser_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/browser/browsertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedSession(t *testing.T) (*browser.Session, *browsertest.Driver, *browsertest.Sink) {
	t.Helper()
	session, driver, sink := newSession(t)
	_, err := session.BrowseTo(context.Background(), exampleURL)
	require.NoError(t, err)
	return session, driver, sink
}

func TestPageOperations_RequireActivePage(t *testing.T) {
	ctx := context.Background()

	ops := map[string]func(s *browser.Session) error{
		"extract_text_content": func(s *browser.Session) error {
			_, err := s.ExtractText(ctx, "")
			return err
		},
		"extract_text_content with selector": func(s *browser.Session) error {
			_, err := s.ExtractText(ctx, "h1")
			return err
		},
		"click_element": func(s *browser.Session) error {
			_, err := s.Click(ctx, "#submit")
			return err
		},
		"get_page_screenshots": func(s *browser.Session) error {
			_, err := s.Screenshot(ctx, browser.ScreenshotRequest{FullPage: true})
			return err
		},
		"get_page_links": func(s *browser.Session) error {
			_, err := s.Links(ctx)
			return err
		},
		"input_text": func(s *browser.Session) error {
			_, err := s.InputText(ctx, "#name", "x")
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			t.Run("never navigated", func(t *testing.T) {
				session, driver, _ := newSession(t)
				err := op(session)
				assert.ErrorIs(t, err, browser.ErrNoActivePage)
				assert.Empty(t, driver.Calls(), "no engine call may happen without a page")
			})

			t.Run("after cleanup", func(t *testing.T) {
				session, driver, _ := loadedSession(t)
				session.Cleanup()
				before := len(driver.Calls())

				err := op(session)
				assert.ErrorIs(t, err, browser.ErrNoActivePage)
				assert.Len(t, driver.Calls(), before)
			})
		})
	}
}

func TestExtractText(t *testing.T) {
	ctx := context.Background()
	session, _, sink := loadedSession(t)

	t.Run("whole body", func(t *testing.T) {
		text, err := session.ExtractText(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "Hello", text)
	})

	t.Run("joins matches in order", func(t *testing.T) {
		text, err := session.ExtractText(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "first\nsecond", text)
		assert.True(t, sink.Contains("Extracted text from selector: p"))
	})

	t.Run("zero matches yields empty text", func(t *testing.T) {
		text, err := session.ExtractText(ctx, ".missing")
		require.NoError(t, err)
		assert.Empty(t, text)
	})
}

func TestExtractText_EngineFailure(t *testing.T) {
	session, driver, _ := loadedSession(t)
	driver.FailOnce("query-all", errors.New("page crashed"))

	_, err := session.ExtractText(context.Background(), "p")
	require.Error(t, err)
	var engineErr *browser.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "extracting text", engineErr.Op)
	assert.Equal(t, "error extracting text: page crashed", err.Error())
}

func TestClick(t *testing.T) {
	session, driver, _ := loadedSession(t)

	msg, err := session.Click(context.Background(), "#submit")
	require.NoError(t, err)
	assert.Equal(t, "Successfully clicked element: #submit", msg)
	assert.Equal(t, []string{"#submit"}, driver.Pages()[0].Clicked())
}

func TestClick_EngineFailure(t *testing.T) {
	session, driver, _ := loadedSession(t)
	driver.FailOnce("click", errors.New("element is detached"))

	_, err := session.Click(context.Background(), "#submit")
	require.Error(t, err)
	assert.True(t, browser.IsEngineError(err))
	assert.Contains(t, err.Error(), "clicking element")
}

func TestSelectorMiss_NoSideEffects(t *testing.T) {
	ctx := context.Background()
	session, driver, _ := loadedSession(t)

	_, err := session.Click(ctx, "#missing")
	require.Error(t, err)
	assert.True(t, browser.IsElementNotFound(err))
	assert.Equal(t, "no element found with selector: #missing", err.Error())

	_, err = session.InputText(ctx, "#missing", "x")
	require.Error(t, err)
	var nf *browser.ElementNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "#missing", nf.Selector)

	_, err = session.Screenshot(ctx, browser.ScreenshotRequest{Selector: "#missing"})
	assert.True(t, browser.IsElementNotFound(err))

	assert.Zero(t, driver.Count("click"))
	assert.Zero(t, driver.Count("fill"))
	assert.Zero(t, driver.Count("element-screenshot"))
	assert.Empty(t, driver.Pages()[0].Clicked())
}

func TestInputText_Overwrites(t *testing.T) {
	ctx := context.Background()
	session, driver, _ := loadedSession(t)

	_, err := session.InputText(ctx, "#name", "first")
	require.NoError(t, err)
	msg, err := session.InputText(ctx, "#name", "second")
	require.NoError(t, err)

	assert.Equal(t, "Successfully input text into element: #name", msg)
	value, ok := driver.Pages()[0].Value("#name")
	require.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestInputText_EngineFailure(t *testing.T) {
	session, driver, _ := loadedSession(t)
	driver.FailOnce("fill", errors.New("element is not an input"))

	_, err := session.InputText(context.Background(), "#name", "x")
	require.Error(t, err)
	assert.Equal(t, "error inputting text: element is not an input", err.Error())
}

func TestScreenshot(t *testing.T) {
	ctx := context.Background()
	session, driver, _ := loadedSession(t)

	tests := []struct {
		name string
		req  browser.ScreenshotRequest
		call string
		want string
	}{
		{
			name: "viewport",
			req:  browser.ScreenshotRequest{},
			call: "screenshot page-1 full_page=false",
			want: "\x89PNG " + exampleURL,
		},
		{
			name: "full page",
			req:  browser.ScreenshotRequest{FullPage: true},
			call: "screenshot page-1 full_page=true",
			want: "\x89PNG " + exampleURL,
		},
		{
			name: "element",
			req:  browser.ScreenshotRequest{Selector: ".outline", FullPage: true},
			call: "element-screenshot page-1 .outline",
			want: "\x89PNG " + exampleURL + "#.outline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := session.Screenshot(ctx, tt.req)
			require.NoError(t, err)

			decoded, err := base64.StdEncoding.DecodeString(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(decoded))
			assert.NotEqual(t, -1, driver.Index(tt.call))
		})
	}
}

func TestScreenshot_EngineFailure(t *testing.T) {
	session, driver, _ := loadedSession(t)
	driver.FailOnce("screenshot", errors.New("renderer crashed"))

	_, err := session.Screenshot(context.Background(), browser.ScreenshotRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capturing screenshot")
}

func TestLinks_OrderAndDuplicates(t *testing.T) {
	driver := browsertest.NewDriver().AddPage(exampleURL, browsertest.Fixture{
		HTML:  `<a href="/a"></a><a href="/b"></a><a href="/a"></a>`,
		Links: []string{"/a", "/b", "/a"},
	})
	session := browser.NewSession(driver, browser.DefaultOptions())
	ctx := context.Background()

	_, err := session.BrowseTo(ctx, exampleURL)
	require.NoError(t, err)

	links, err := session.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/a"}, links)
}

func TestLinks_EmptyPage(t *testing.T) {
	driver := browsertest.NewDriver().AddPage(exampleURL, browsertest.Fixture{HTML: "<html></html>"})
	session := browser.NewSession(driver, browser.DefaultOptions())
	ctx := context.Background()

	_, err := session.BrowseTo(ctx, exampleURL)
	require.NoError(t, err)

	links, err := session.Links(ctx)
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestLinks_EngineFailure(t *testing.T) {
	session, driver, sink := loadedSession(t)
	driver.FailOnce("evaluate", errors.New("script error"))

	_, err := session.Links(context.Background())
	require.Error(t, err)
	assert.Equal(t, "error extracting links: script error", err.Error())
	assert.True(t, sink.Contains("Error extracting links"))
}
