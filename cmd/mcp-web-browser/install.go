package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/mcp-web-browser/pkg/engine/pwengine"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download the Playwright driver and Chromium",
		Long: `install fetches the Playwright driver and the Chromium build it expects.
Run it once before serving with the playwright engine, or set
browser.install_driver in the config file to install on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Infof("Installing Playwright driver and Chromium")
			driver := pwengine.NewDriver(pwengine.Options{Output: cmd.ErrOrStderr()})
			if err := driver.Install(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Playwright driver and Chromium installed")
			return nil
		},
	}
}
