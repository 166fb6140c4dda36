package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/boolattack/collide"
)

// initCmd: boolattack init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = collide.DefaultConfigPath
		}
		if err := collide.WriteConfig(path, collide.DefaultConfig()); err != nil {
			return fmt.Errorf("initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
		return nil
	},
}
