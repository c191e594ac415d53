package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simvec/simvec/store"
)

func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <embedding>",
		Short: "Find records similar to a query embedding",
		Long:  `Search records whose cosine similarity to the query embedding is strictly greater than the threshold, ordered by descending similarity.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseEmbedding(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			threshold := cfg.Threshold
			if cmd.Flags().Changed("threshold") {
				threshold, _ = cmd.Flags().GetFloat64("threshold")
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			matches, err := a.store.Search(cmd.Context(), query, threshold)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				if matches == nil {
					matches = []store.Match{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(matches)
			}
			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%d\t%.4f\n", m.ID, m.Similarity)
			}
			return nil
		},
	}

	cmd.Flags().Float64P("threshold", "t", 0, "Minimum similarity (exclusive); defaults to the configured threshold")
	cmd.Flags().Bool("json", false, "Output matches as JSON")
	return cmd
}
