package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/parallel"
	"github.com/san-kum/dunbrack/internal/trig"
)

func compileCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "compile [source] [output.dbrk]",
		Short: "compile a CSV or .lib library into the binary format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			format, err := dunbrack.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}
			start := time.Now()
			lib, err := dunbrack.Open(src, dunbrack.Options{Format: format, Logger: logger})
			if err != nil {
				return err
			}

			out, err := os.Create(dst)
			if err != nil {
				return err
			}
			if err := lib.WriteBinary(out); err != nil {
				out.Close()
				return fmt.Errorf("compile %s: %w", dst, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
			info, err := os.Stat(dst)
			if err != nil {
				return err
			}
			fmt.Printf("compiled %s -> %s (%d bytes) in %v\n", src, dst, info.Size(), time.Since(start).Round(time.Millisecond))

			if !check {
				return nil
			}
			compiled, err := dunbrack.Open(dst, dunbrack.Options{Format: dunbrack.FormatBinary, Logger: logger})
			if err != nil {
				return fmt.Errorf("reopen %s: %w", dst, err)
			}
			return verifyAgainst(compiled, src, format)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "reopen the output and verify it against the source")
	return cmd
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [source]",
		Short: "check that the library reproduces every row of its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			return verifyAgainst(lib, args[0], dunbrack.FormatOf(args[0]))
		},
	}
}

func verifyAgainst(lib *dunbrack.Library, src string, format dunbrack.Format) error {
	fp, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fp.Close()

	rep, err := lib.Verify(fp, format)
	if err != nil {
		return fmt.Errorf("verify %s: %w", src, err)
	}
	for _, m := range rep.Mismatches {
		fmt.Println("  " + m.String())
	}
	if !rep.OK() {
		return fmt.Errorf("verify %s: %d of %d rows differ", src, rep.Failed, rep.Rows)
	}
	fmt.Printf("verified %d rows of %s\n", rep.Rows, src)
	return nil
}

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "interactive φ/ψ explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return errors.New("explore needs a terminal")
			}
			return explore()
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "show the library and residue kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary()
			if err != nil {
				return err
			}
			fmt.Printf("library: %s\n", lib.Source())
			fmt.Printf("trig backend: %s\n\n", trig.Active().Name())

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RES\tNAME\tCHI\tROTAMERS\tΣP(0,0)")
			total := 0
			for _, k := range dunbrack.Kinds() {
				set := lib.Rotamers(k, 0, 0)
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\n", k, k.Name(), k.NChi(), k.NRotamers(), set.ProbSum())
				total += k.NRotamers()
			}
			fmt.Fprintf(w, "\t\t\t%d\t\n", total)
			return w.Flush()
		},
	}
}

func benchCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "bench [residue...]",
		Short: "measure query throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n <= 0 {
				return errors.New("--queries must be positive")
			}
			kinds := dunbrack.Kinds()
			if len(args) > 0 {
				var err error
				if kinds, err = parseKinds(args); err != nil {
					return err
				}
			}
			lib, err := openLibrary()
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(1, 2))
			angles := make([][2]float64, n)
			for i := range angles {
				angles[i] = [2]float64{rng.Float64()*360 - 180, rng.Float64()*360 - 180}
			}

			fmt.Printf("benchmarking %d queries per residue (%s trig)\n\n", n, trig.Active().Name())
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "RES\tROTAMERS\tSERIAL\tREUSED BUFFER\tPARALLEL(%d)\tQUERIES/SEC\n", cfg.Workers)
			for _, k := range kinds {
				start := time.Now()
				for _, a := range angles {
					_ = lib.Rotamers(k, a[0], a[1])
				}
				serial := time.Since(start)

				var buf dunbrack.Rotamers
				start = time.Now()
				for _, a := range angles {
					lib.RotamersInto(&buf, k, a[0], a[1])
				}
				reused := time.Since(start)

				start = time.Now()
				parallel.For(n, 256, cfg.Workers, func(s, e int) {
					var local dunbrack.Rotamers
					for _, a := range angles[s:e] {
						lib.RotamersInto(&local, k, a[0], a[1])
					}
				})
				par := time.Since(start)

				perQuery := func(d time.Duration) time.Duration { return d / time.Duration(n) }
				fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%v\t%.0f\n", k, k.NRotamers(),
					perQuery(serial), perQuery(reused), perQuery(par), float64(n)/par.Seconds())
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&n, "queries", 100000, "queries per residue")
	return cmd
}
