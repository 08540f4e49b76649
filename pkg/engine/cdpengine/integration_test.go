package cdpengine_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/engine/cdpengine"
)

const testPage = `<html><head><title>Fixture</title></head>
<body><h1>Hello</h1><a href="/next">next</a><input id="name"></body></html>`

func TestSession_Chrome(t *testing.T) {
	if testing.Short() || os.Getenv("MCP_WEB_BROWSER_INTEGRATION") == "" {
		t.Skip("set MCP_WEB_BROWSER_INTEGRATION to run against a local Chrome")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	opts := browser.DefaultOptions()
	opts.WaitUntil = browser.WaitUntilLoad
	s := browser.NewSession(cdpengine.NewDriver(cdpengine.Options{}), opts)
	defer s.Cleanup()

	html, err := s.BrowseTo(ctx, srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Hello</h1>")

	text, err := s.ExtractText(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)

	links, err := s.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/next"}, links)

	_, err = s.InputText(ctx, "#name", "ada")
	require.NoError(t, err)

	shot, err := s.Screenshot(ctx, browser.ScreenshotRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, shot)
}
