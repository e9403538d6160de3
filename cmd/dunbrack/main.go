package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/config"
	"github.com/san-kum/dunbrack/internal/viz"
)

var (
	configFile string
	cfg        = config.DefaultConfig()
	logger     = slog.New(slog.DiscardHandler)

	libPath    string
	formatName string
	dataDir    string
	logLevel   string
	output     string
	theme      string
	workers    int

	phi, psi       float64
	from, to, step float64
	preset         string
	top            int
	rots           []int
	save           bool
	imagePath      string
	count          int
	seed           uint64
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "dunbrack",
		Short:             "backbone-dependent rotamer library",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return cmd.Help()
			}
			return explore()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&libPath, "lib", config.DefaultLibrary, "library file (csv, lib, dbrk; optionally gzipped)")
	pf.StringVar(&formatName, "format", "auto", "library format: auto, csv, lib, binary")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "run data directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.StringVarP(&output, "output", "o", "table", "output: table, csv, json")
	pf.StringVar(&theme, "theme", "lab", "color theme: "+strings.Join(viz.ThemeNames(), ", "))
	pf.IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers")

	rootCmd.AddCommand(
		queryCmd(), sweepCmd(), plotCmd(), landscapeCmd(), optimumCmd(),
		sampleCmd(), batchCmd(), compileCmd(), verifyCmd(), exploreCmd(),
		presetsCmd(), listCmd(), showCmd(), exportCmd(), benchCmd(), infoCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// interactive reports whether stdin and stdout are terminals.
func interactive() bool {
	tty := func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return tty(os.Stdin) && tty(os.Stdout)
}

func explore() error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}
	return viz.RunExplorer(lib)
}

// setup loads the config file and lets explicitly set flags override it.
func setup(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("lib") || cfg.Library == "" {
		cfg.Library = libPath
	}
	if flags.Changed("format") {
		cfg.Format = formatName
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	viz.SetTheme(theme)

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// openLibrary installs the configured library as the process-wide one.
func openLibrary() (*dunbrack.Library, error) {
	if lib := dunbrack.Default(); lib != nil {
		return lib, nil
	}
	format, err := dunbrack.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	err = dunbrack.Load(cfg.Library, dunbrack.Options{Format: format, Logger: logger})
	if err != nil && !errors.Is(err, dunbrack.ErrAlreadyLoaded) {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	return dunbrack.Default(), nil
}

// parseKinds reads residue tags; "all" selects every kind.
func parseKinds(args []string) ([]dunbrack.Kind, error) {
	if len(args) == 1 && strings.EqualFold(args[0], "all") {
		return dunbrack.Kinds(), nil
	}
	kinds := make([]dunbrack.Kind, 0, len(args))
	for _, a := range args {
		k, err := dunbrack.ParseKind(a)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// backbone resolves --preset or --phi/--psi.
func backbone(cmd *cobra.Command) (float64, float64, error) {
	if preset == "" {
		return phi, psi, nil
	}
	if cmd.Flags().Changed("phi") || cmd.Flags().Changed("psi") {
		return 0, 0, fmt.Errorf("--preset and --phi/--psi are exclusive")
	}
	bb, ok := config.FindPreset(preset)
	if !ok {
		return 0, 0, fmt.Errorf("unknown preset: %s (see 'dunbrack presets')", preset)
	}
	return bb.Phi, bb.Psi, nil
}

func addBackboneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&phi, "phi", -60, "backbone φ in degrees")
	cmd.Flags().Float64Var(&psi, "psi", config.DefaultPsi, "backbone ψ in degrees")
	cmd.Flags().StringVar(&preset, "preset", "", "named backbone, e.g. helix/alpha or beta")
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&psi, "psi", config.DefaultPsi, "fixed ψ in degrees")
	cmd.Flags().Float64Var(&from, "from", -180, "first φ")
	cmd.Flags().Float64Var(&to, "to", 180, "last φ")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "φ step")
}

// sweepRange is a φ scan at fixed ψ.
type sweepRange struct {
	psi, from, to, step float64
}

// sweepFlags applies config values to sweep flags that were not set.
func sweepFlags(cmd *cobra.Command) (sweepRange, error) {
	flags := cmd.Flags()
	r := sweepRange{psi: psi, from: from, to: to, step: step}
	if !flags.Changed("psi") {
		r.psi = cfg.Sweep.Psi
	}
	if !flags.Changed("from") {
		r.from = cfg.Sweep.From
	}
	if !flags.Changed("to") {
		r.to = cfg.Sweep.To
	}
	if !flags.Changed("step") {
		r.step = cfg.Sweep.Step
	}
	if r.step <= 0 || r.from > r.to {
		return r, fmt.Errorf("invalid sweep: from %g to %g step %g", r.from, r.to, r.step)
	}
	return r, nil
}
