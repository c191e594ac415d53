package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the simvec command tree.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "simvec",
		Short:        "Embedding similarity store",
		Long:         `simvec stores records with embedding vectors and retrieves the ones whose cosine similarity to a query exceeds a threshold.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewAddCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewResetCmd())
	return cmd
}
