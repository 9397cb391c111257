package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"renttracker/internal/repositories"
	"renttracker/internal/services"
	"renttracker/pkg/database"
)

func filingReportCmd() *cobra.Command {
	var onDate string

	cmd := &cobra.Command{
		Use:   "filing-report",
		Short: "Print every LLC with its annual filing status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			today := time.Now().In(cfg.TimeZone)
			if onDate != "" {
				today, err = time.ParseInLocation(time.DateOnly, onDate, cfg.TimeZone)
				if err != nil {
					return errors.Wrap(err, "--date must look like 2006-01-02")
				}
			}

			pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			// reads only, so audit records are never produced
			llcs := services.NewLLCService(repositories.NewStore(pool), nil)
			rows, err := llcs.FilingReport(cmd.Context(), today)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LLC\tLAST FILING\tDEADLINE\tSTATUS")
			for _, row := range rows {
				last := "-"
				if row.LLC.LastFilingDate != nil {
					last = row.LLC.LastFilingDate.Format(time.DateOnly)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.LLC.Name, last, row.Deadline.Format(time.DateOnly), row.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&onDate, "date", "", "classify as of this date instead of today")
	return cmd
}
