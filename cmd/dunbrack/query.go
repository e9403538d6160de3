package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/analysis"
	"github.com/san-kum/dunbrack/internal/config"
	"github.com/san-kum/dunbrack/internal/export"
	"github.com/san-kum/dunbrack/internal/storage"
	"github.com/san-kum/dunbrack/internal/trig"
	"github.com/san-kum/dunbrack/internal/viz"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [residue...]",
		Short: "rotamers of residues at one backbone conformation",
		Long:  "query prints every rotamer of each residue at (φ, ψ). Use 'all' for every residue kind.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}
	addBackboneFlags(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "show only the most probable rotamers (table output)")
	cmd.Flags().BoolVar(&save, "save", false, "save the result as a run")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}
	phi, psi, err := backbone(cmd)
	if err != nil {
		return err
	}
	lib, err := openLibrary()
	if err != nil {
		return err
	}

	records := make([]storage.Record, len(kinds))
	for i, k := range kinds {
		set := lib.Rotamers(k, phi, psi)
		records[i] = storage.NewRecord(k, phi, psi, set)
	}
	return emit("query", records, nil)
}

func runMeta(command string, records []storage.Record) storage.RunMetadata {
	return storage.RunMetadata{
		Command: command,
		Library: cfg.Library,
		Backend: trig.Active().Name(),
		Queries: len(records),
	}
}

// emit writes records in the configured output and optionally saves them.
func emit(command string, records []storage.Record, metrics map[string]float64) error {
	meta := runMeta(command, records)
	meta.Metrics = metrics
	switch cfg.Output {
	case "csv":
		if err := storage.WriteCSV(os.Stdout, records); err != nil {
			return err
		}
	case "json":
		if err := storage.WriteJSON(os.Stdout, meta, records); err != nil {
			return err
		}
	default:
		for _, r := range records {
			fmt.Println(viz.RenderRotamers(r.Kind, r.Phi, r.Psi, r.Rotamers, top))
			fmt.Println()
		}
	}
	if !save {
		return nil
	}
	return saveRun(meta, records)
}

// saveRun stores records under a new run id.
func saveRun(meta storage.RunMetadata, records []storage.Record) error {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(meta, records)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", runID, "queries", len(records), "dir", cfg.DataDir)
	fmt.Fprintf(os.Stderr, "run id: %s\n", runID)
	return nil
}

func sweepCmd() *cobra.Command {
	var harmonics int
	cmd := &cobra.Command{
		Use:   "sweep [residue]",
		Short: "scan φ at fixed ψ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dunbrack.ParseKind(args[0])
			if err != nil {
				return err
			}
			r, err := sweepFlags(cmd)
			if err != nil {
				return err
			}
			lib, err := openLibrary()
			if err != nil {
				return err
			}

			points := analysis.Sweep(lib, k, r.psi, r.from, r.to, r.step)
			records := make([]storage.Record, len(points))
			for i, p := range points {
				records[i] = storage.NewRecord(k, p.Phi, p.Psi, p.Rotamers)
			}
			if cfg.Output != "table" {
				return emit("sweep", records, nil)
			}

			fmt.Printf("%s sweep at ψ=%.1f, φ from %.1f to %.1f step %.1f\n\n", k, r.psi, r.from, r.to, r.step)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprint(w, "PHI\tENTROPY\tBEST\tP(BEST)")
			for _, rot := range rots {
				fmt.Fprintf(w, "\tP(%d)", rot)
			}
			fmt.Fprintln(w)
			for _, p := range points {
				best, _ := p.Rotamers.Best()
				fmt.Fprintf(w, "%.1f\t%.4f\t%v\t%.4f", p.Phi, analysis.Entropy(p.Rotamers), best.BinSlice(), best.Prob)
				for _, rot := range rots {
					if rot >= 0 && rot < p.Rotamers.Len() {
						fmt.Fprintf(w, "\t%.4f", p.Rotamers.At(rot).Prob)
					}
				}
				fmt.Fprintln(w)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if save {
				if err := saveRun(runMeta("sweep", records), records); err != nil {
					return err
				}
			}

			if harmonics > 0 {
				fmt.Printf("\nφ harmonics at ψ=%.1f\n", r.psi)
				hw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprint(hw, "ROT\tBINS")
				for m := 0; m <= min(harmonics, analysis.HarmonicSamples/2); m++ {
					fmt.Fprintf(hw, "\tA%d", m)
				}
				fmt.Fprintln(hw)
				set := points[0].Rotamers
				for i, rot := range set.All() {
					fmt.Fprintf(hw, "%d\t%v", i, rot.BinSlice())
					for _, a := range analysis.Harmonics(lib, k, r.psi, i, harmonics) {
						fmt.Fprintf(hw, "\t%.4f", a)
					}
					fmt.Fprintln(hw)
				}
				return hw.Flush()
			}
			return nil
		},
	}
	addSweepFlags(cmd)
	cmd.Flags().IntSliceVar(&rots, "rot", nil, "rotamer indices to print")
	cmd.Flags().IntVar(&harmonics, "harmonics", 0, "print this many φ harmonics per rotamer")
	cmd.Flags().BoolVar(&save, "save", false, "save the sweep as a run")
	return cmd
}

func plotCmd() *cobra.Command {
	var entropy bool
	cmd := &cobra.Command{
		Use:   "plot [residue]",
		Short: "plot rotamer probabilities along φ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dunbrack.ParseKind(args[0])
			if err != nil {
				return err
			}
			r, err := sweepFlags(cmd)
			if err != nil {
				return err
			}
			lib, err := openLibrary()
			if err != nil {
				return err
			}

			points := analysis.Sweep(lib, k, r.psi, r.from, r.to, r.step)
			selected := rots
			if len(selected) == 0 {
				selected = topRotamers(lib, k, r.psi, 3)
			}

			fmt.Println(viz.PlotProfiles(k, points, selected, viz.PlotOptions{Width: 80, Height: 12}))
			if entropy {
				fmt.Println()
				fmt.Println(viz.PlotSeries(analysis.EntropyProfile(points),
					fmt.Sprintf("%s entropy vs φ (nats)", k), viz.PlotOptions{Width: 80, Height: 8}))
			}

			if imagePath != "" {
				p, err := export.SweepPlot(k, points, selected)
				if err != nil {
					return err
				}
				if err := export.Save(p, imagePath); err != nil {
					return err
				}
				fmt.Printf("\nwrote %s\n", imagePath)
			}
			return nil
		},
	}
	addSweepFlags(cmd)
	cmd.Flags().IntSliceVar(&rots, "rot", nil, "rotamer indices to plot (default: the three most probable)")
	cmd.Flags().BoolVar(&entropy, "entropy", false, "also plot the entropy")
	cmd.Flags().StringVar(&imagePath, "image", "", "also write the plot to an image file (.png, .svg, .pdf)")
	return cmd
}

// topRotamers returns the indices of the n rotamers with the highest mean
// probability along φ at psi.
func topRotamers(src analysis.Source, k dunbrack.Kind, psi float64, n int) []int {
	nRot := k.NRotamers()
	means := make([]float64, nRot)
	for _, phi := range analysis.Steps(-180, 170, 10) {
		set := src.Rotamers(k, phi, psi)
		for i, r := range set.All() {
			means[i] += float64(r.Prob)
		}
	}
	out := make([]int, 0, n)
	used := make([]bool, nRot)
	for len(out) < min(n, nRot) {
		best := -1
		for i, m := range means {
			if !used[i] && (best < 0 || m > means[best]) {
				best = i
			}
		}
		used[best] = true
		out = append(out, best)
	}
	return out
}

func landscapeCmd() *cobra.Command {
	var rot int
	cmd := &cobra.Command{
		Use:   "landscape [residue]",
		Short: "one rotamer's probability over the φ/ψ plane",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dunbrack.ParseKind(args[0])
			if err != nil {
				return err
			}
			if rot < 0 || rot >= k.NRotamers() {
				return fmt.Errorf("rotamer index %d out of range [0, %d)", rot, k.NRotamers())
			}
			if step <= 0 {
				return fmt.Errorf("invalid step %g", step)
			}
			lib, err := openLibrary()
			if err != nil {
				return err
			}

			g := analysis.Landscape(lib, k, rot, step)
			maxPhi, maxPsi, maxP := g.Max()
			set := lib.Rotamers(k, maxPhi, maxPsi)
			fmt.Printf("%s rotamer %d r=%v   ψ ↑  φ →\n", k, rot, set.At(rot).BinSlice())
			fmt.Print(analysis.LandscapeToASCII(g))
			fmt.Printf("max p=%.4f at φ=%.1f ψ=%.1f, mean p=%.4f\n", maxP, maxPhi, maxPsi, g.Mean())

			if imagePath != "" {
				p, err := export.LandscapePlot(g)
				if err != nil {
					return err
				}
				if err := export.Save(p, imagePath); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", imagePath)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rot, "rot", 0, "rotamer index")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "grid step in degrees")
	cmd.Flags().StringVar(&imagePath, "image", "", "also write a heat map image (.png, .svg, .pdf)")
	return cmd
}

func optimumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimum [residue]",
		Short: "backbone conformations that favour each rotamer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dunbrack.ParseKind(args[0])
			if err != nil {
				return err
			}
			if step <= 0 {
				return fmt.Errorf("invalid step %g", step)
			}
			lib, err := openLibrary()
			if err != nil {
				return err
			}

			selected := rots
			if len(selected) == 0 {
				for i := range k.NRotamers() {
					selected = append(selected, i)
				}
			}
			ref := lib.Rotamers(k, 0, 0)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROT\tBINS\tPHI\tPSI\tPROB")
			for _, rot := range selected {
				if rot < 0 || rot >= k.NRotamers() {
					return fmt.Errorf("rotamer index %d out of range [0, %d)", rot, k.NRotamers())
				}
				opt, err := analysis.Optimum(cmd.Context(), lib, k, rot, step)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%d\t%v\t%.1f\t%.1f\t%.4f\n", rot, ref.At(rot).BinSlice(), opt.Phi, opt.Psi, opt.Prob)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntSliceVar(&rots, "rot", nil, "rotamer indices (default: all)")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "coarse grid step in degrees")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [group]",
		Short: "list named backbone conformations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := config.ListGroups()
			if len(args) == 1 {
				if config.ListPresets(args[0]) == nil {
					return fmt.Errorf("no preset group %q (available: %v)", args[0], groups)
				}
				groups = args[:1]
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tPHI\tPSI\tDESCRIPTION")
			for _, g := range groups {
				for _, name := range config.ListPresets(g) {
					bb := config.GetPreset(g, name)
					fmt.Fprintf(w, "%s/%s\t%.0f\t%.0f\t%s\n", g, name, bb.Phi, bb.Psi, bb.Description)
				}
			}
			return w.Flush()
		},
	}
}
