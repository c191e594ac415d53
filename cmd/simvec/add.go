package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simvec/simvec/store"
)

func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> [embedding]",
		Short: "Insert or replace a record",
		Long:  `Insert a record with an integer ID and an optional embedding given as comma-separated floats, e.g. "simvec add 7 1,0,0.5". A record without an embedding is stored but never matched by search.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			rec := store.Record{ID: id}
			if len(args) == 2 {
				if rec.Embedding, err = parseEmbedding(args[1]); err != nil {
					return err
				}
			}
			rec.Content, _ = cmd.Flags().GetString("content")
			rec.Meta, _ = cmd.Flags().GetString("meta")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Upsert(cmd.Context(), rec); err != nil {
				return err
			}
			cmd.Printf("record %d stored\n", id)
			return nil
		},
	}

	cmd.Flags().String("content", "", "Record content")
	cmd.Flags().String("meta", "", "Record metadata (opaque string, e.g. JSON)")
	return cmd
}
