package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rtt-prober/internal/config"
	"rtt-prober/internal/database"
	"rtt-prober/internal/output"
)

func newRecordsCmd(e env, cfgFile *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print the newest records stored in a --db database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// --db, PROBER_DB and the config file's db key all apply here
			cfg, err := config.Load(viper.New(), cmd.Flags(), *cfgFile)
			if err != nil {
				return err
			}
			if cfg.DatabasePath == "" {
				return errors.New("--db is required")
			}
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}

			db, err := database.OpenReadOnly(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := db.Recent(limit)
			if err != nil {
				return err
			}

			w := output.TSV(e.stdout)
			for _, rec := range records {
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "SQLite database written by a previous run")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of records to print")

	return cmd
}
