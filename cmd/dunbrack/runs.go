package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dunbrack/internal/storage"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(cfg.DataDir)
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOMMAND\tTIME\tQUERIES\tRESIDUES\tBACKEND")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					run.ID,
					run.Command,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Queries,
					strings.Join(run.Kinds, ","),
					run.Backend,
				)
			}
			return w.Flush()
		},
	}
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the records of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(cfg.DataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			records, err := st.LoadRecords(args[0])
			if err != nil {
				return err
			}
			if cfg.Output == "table" {
				fmt.Printf("run: %s\ncommand: %s\nlibrary: %s\ntime: %s\n",
					meta.ID, meta.Command, meta.Library, meta.Timestamp.Format("2006-01-02 15:04:05"))
				for name, val := range meta.Metrics {
					fmt.Printf("  %s: %.6g\n", name, val)
				}
				fmt.Println()
			}
			return emit(meta.Command, records, meta.Metrics)
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "show only the most probable rotamers (table output)")
	return cmd
}

func exportCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(cfg.DataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			records, err := st.LoadRecords(args[0])
			if err != nil {
				return err
			}
			if path == "" {
				return storage.WriteJSON(os.Stdout, *meta, records)
			}
			if err := storage.ExportJSON(path, *meta, records); err != nil {
				return err
			}
			fmt.Printf("exported %s to %s\n", meta.ID, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "out", "", "output file (default stdout)")
	return cmd
}
