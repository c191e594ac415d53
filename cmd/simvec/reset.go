package main

import (
	"github.com/spf13/cobra"
)

func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the records schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				cmd.Println("reset drops all records; re-run with --yes to confirm")
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.reset.Reset(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("records schema reset")
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm the destructive reset")
	return cmd
}
