package main

import (
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Bootstrap the configured backend",
		Long:  `Run the one-time initialization for the configured backend: register the vector SQL functions (SQLite), enable the vector extension (Postgres), and ensure the records table exists.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			cmd.Printf("backend %q initialized\n", cfg.Backend)
			return nil
		},
	}
}
