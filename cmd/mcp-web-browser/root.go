package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/mcp-web-browser/pkg/config"
	"github.com/entrhq/mcp-web-browser/pkg/logging"
)

// cliFlags holds values given on the command line. They override the
// configuration file when set.
type cliFlags struct {
	configPath string
	engine     string
	headless   bool
	logLevel   string
	logFile    string
}

// app carries state shared by the subcommands once PersistentPreRunE has run.
type app struct {
	flags   cliFlags
	manager *config.Manager
	logger  *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mcp-web-browser",
		Short: "MCP server that exposes a headless web browser as tools",
		Long: `mcp-web-browser serves browse_to, extract_text_content, click_element,
get_page_screenshots, get_page_links and input_text over the Model Context
Protocol on stdin/stdout. All tools share one lazily started browser session.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.SetVersionTemplate("{{.Name}} version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.flags.configPath, "config", "c", "", "config file (default is ~/.mcp-web-browser/config.yaml)")
	flags.StringVar(&a.flags.engine, "engine", "", fmt.Sprintf("browser engine, one of %v", config.Engines))
	flags.BoolVar(&a.flags.headless, "headless", true, "run the browser without a window")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.flags.logFile, "log-file", "", `log file path, or "off" to log to stderr only`)

	root.AddCommand(
		newServeCmd(a),
		newInstallCmd(a),
		newVersionCmd(),
	)
	return root
}

// initialize loads the configuration, applies flag overrides and configures
// logging.
func (a *app) initialize(cmd *cobra.Command) error {
	manager, err := config.Load(a.flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	browserSection := config.BrowserOf(manager)
	loggingSection := config.LoggingOf(manager)

	flags := cmd.Flags()
	if flags.Changed("engine") {
		browserSection.SetEngine(a.flags.engine)
	}
	if flags.Changed("headless") {
		browserSection.SetHeadless(a.flags.headless)
	}
	if flags.Changed("log-level") {
		loggingSection.SetLevel(a.flags.logLevel)
	}
	if flags.Changed("log-file") {
		loggingSection.SetFile(a.flags.logFile)
	}

	for _, section := range manager.GetSections() {
		if err := section.Validate(); err != nil {
			return fmt.Errorf("invalid %s configuration: %w", section.ID(), err)
		}
	}

	// On a file error Configure keeps the console sink and logs the failure
	l := loggingSection.Settings()
	_ = logging.Configure(logging.Options{
		Level:      l.Level,
		Format:     l.Format,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
		Console:    cmd.ErrOrStderr(),
	})

	a.logger, _ = logging.NewLogger("cli")

	a.manager = manager
	if fs, ok := manager.Store().(*config.FileStore); ok {
		a.logger.Debugf("Configuration loaded from %s", fs.Path())
	}
	return nil
}
