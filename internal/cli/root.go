package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablemap/pkg/config"
	"github.com/matzehuels/tablemap/pkg/observability"
)

// prepare runs before every subcommand: it loads the configuration and
// routes observability events to the logger.
func (c *CLI) prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", displayPath(c.configSource()),
		"canvas", cfg.Dimensions(), "mode", cfg.Layout.Mode)

	hooks := &logHooks{logger: c.Logger}
	observability.SetLayoutHooks(hooks)
	observability.SetSimulationHooks(hooks)
	observability.SetPerformanceHooks(hooks)
	return nil
}

func (c *CLI) configSource() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.Path()
}
