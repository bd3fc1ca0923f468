package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gncitizen/pkg/db"
)

func newSchemaCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the database tables for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			conn, err := db.Open(cfg.DB, log)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.ApplySchema(cmd.Context()); err != nil {
				return err
			}
			log.Info("Schema applied", zap.String("dialect", string(conn.Dialect)))
			return nil
		},
	}
}
