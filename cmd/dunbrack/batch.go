package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/dunbrack/internal/batch"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [job.yaml]",
		Short: "answer a file of queries in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := batch.LoadJob(args[0])
			if err != nil {
				return err
			}
			lib, err := openLibrary()
			if err != nil {
				return err
			}

			start := time.Now()
			records, err := batch.Run(cmd.Context(), lib, job, cfg.Workers)
			if err != nil {
				return fmt.Errorf("batch %s: %w", job.Name, err)
			}
			elapsed := time.Since(start)
			logger.Info("batch done", "job", job.Name, "queries", len(records), "workers", cfg.Workers, "elapsed", elapsed)
			return emit("batch:"+job.Name, records, map[string]float64{"elapsed_ms": float64(elapsed.Microseconds()) / 1000})
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "show only the most probable rotamers (table output)")
	cmd.Flags().BoolVar(&save, "save", false, "save the results as a run")
	return cmd
}
