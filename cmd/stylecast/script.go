package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/injector"
)

func newScriptCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the bundled client initialization script",
		RunE: func(cmd *cobra.Command, args []string) error {
			configs := &config.FileLoader{Path: root.configPath}
			cfg, err := configs.LoadConfiguration()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), injector.ClientScript(cfg))
			return nil
		},
	}

	return cmd
}
