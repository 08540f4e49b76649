package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/mcp-web-browser/pkg/browser"
	"github.com/entrhq/mcp-web-browser/pkg/config"
	"github.com/entrhq/mcp-web-browser/pkg/engine/cdpengine"
	"github.com/entrhq/mcp-web-browser/pkg/engine/pwengine"
	"github.com/entrhq/mcp-web-browser/pkg/engine/staticengine"
	"github.com/entrhq/mcp-web-browser/pkg/logging"
	"github.com/entrhq/mcp-web-browser/pkg/server"
	browsertools "github.com/entrhq/mcp-web-browser/pkg/tools/browser"
)

const instructions = `Call browse_to first. Every other tool acts on the page it loaded, and each browse_to replaces that page.`

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser tools over stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve runs the MCP server until ctx is cancelled or the client goes away.
// The browser session is released on every exit path.
func (a *app) serve(ctx context.Context) error {
	srv, err := a.buildServer()
	if err != nil {
		return err
	}
	defer srv.Shutdown()

	if err := srv.Run(ctx); err != nil {
		a.logger.Errorf("Server stopped: %v", err)
		return err
	}
	a.logger.Infof("Server stopped")
	return nil
}

// buildServer wires the configured engine, session and tools together.
func (a *app) buildServer() (*server.Server, error) {
	settings := config.BrowserOf(a.manager).Settings()

	guard, err := settings.Guard()
	if err != nil {
		return nil, err
	}

	driver, err := newDriver(settings, guard)
	if err != nil {
		return nil, err
	}

	sessionLogger, _ := logging.NewLogger("browser")
	opts := settings.SessionOptions()
	opts.Policy = guard
	opts.Logger = sessionLogger

	session := browser.NewSession(driver, opts)
	toolset := browsertools.NewToolRegistry(session).RegisterTools()

	serverLogger, _ := logging.NewLogger("server")
	srv := server.New(session, toolset, server.Options{
		Version:      version,
		Instructions: instructions,
		Logger:       serverLogger,
	})

	a.logger.Infof("Starting %s (engine %s, headless %t)", server.DefaultName, driver.Name(), settings.Headless)
	return srv, nil
}

// newDriver returns the engine adapter named by settings.Engine. Only the
// static engine enforces policy past the initial navigation.
func newDriver(settings config.BrowserSettings, policy browser.URLPolicy) (browser.Driver, error) {
	switch settings.Engine {
	case config.EnginePlaywright:
		return pwengine.NewDriver(pwengine.Options{Install: settings.InstallDriver}), nil
	case config.EngineChromedp:
		return cdpengine.NewDriver(cdpengine.Options{}), nil
	case config.EngineStatic:
		return staticengine.NewDriver(staticengine.Options{Policy: policy}), nil
	default:
		return nil, fmt.Errorf("unknown engine %q, expected one of %v", settings.Engine, config.Engines)
	}
}
