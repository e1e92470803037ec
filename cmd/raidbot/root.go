package main

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/raidbot/internal/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "raidbot",
		Short:         "raidbot plays a survival game from a stream of detections",
		Long:          `raidbot reads object detections, decides what to do with a rule engine and acts through a behavior tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to the YAML config file")

	cmd.AddCommand(newRunCmd(opts), newDecideCmd(opts), newTreeCmd(opts))
	return cmd
}

// load reads the config file. A missing file yields the defaults and
// found=false.
func (o *rootOptions) load() (*config.Config, bool, error) {
	return config.Load(o.configPath)
}
