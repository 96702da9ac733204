package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gogpu/gg/text"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/LaboratoryZero/matrixrain/internal/config"
	"github.com/LaboratoryZero/matrixrain/internal/export"
	"github.com/LaboratoryZero/matrixrain/internal/gui"
	"github.com/LaboratoryZero/matrixrain/internal/rain"
	"github.com/LaboratoryZero/matrixrain/internal/render"
	"github.com/LaboratoryZero/matrixrain/internal/stats"
	"github.com/LaboratoryZero/matrixrain/internal/store"
	"github.com/LaboratoryZero/matrixrain/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string

	width      int
	height     int
	fps        int
	duration   float64
	seed       int64
	fontPath   string
	transition string
	output     string

	glyphSize float64
	density   float64
	speed     float64

	jsonOut bool
)

// main registers commands and flags and launches the windowed preview
// when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "matrixrain",
		Short: "digital rain simulator and renderer",
		RunE:  runPreview,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".matrixrain", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "color theme preset")
	addVisualFlags(rootCmd)

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "windowed live preview",
		RunE:  runPreview,
	}
	addVisualFlags(previewCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal live preview",
		RunE:  runTUI,
	}
	addVisualFlags(tuiCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "render to an animated gif or numbered png frames",
		RunE:  runExport,
	}
	addVisualFlags(exportCmd)
	exportCmd.Flags().Float64Var(&duration, "time", 10.0, "duration in seconds")
	exportCmd.Flags().StringVar(&transition, "transition", "none", "transition script (none, glitch, drain)")
	exportCmd.Flags().StringVarP(&output, "output", "o", "rain.gif", "output path (.gif or a directory for png frames)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark headless simulation stepping",
		RunE:  runBench,
	}
	addVisualFlags(benchCmd)
	benchCmd.Flags().Float64Var(&duration, "time", 10.0, "simulated duration in seconds")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list past export runs",
		RunE:  listRuns,
	}
	runsCmd.Flags().BoolVar(&jsonOut, "json", false, "print runs as json")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list color theme presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-8s head %s  tail %s\n", name, p.HeadColor, p.TailColor)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "matrixrain.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(previewCmd, tuiCmd, exportCmd, benchCmd, runsCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addVisualFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "frame width in pixels")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "frame height in pixels")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&fontPath, "font", "", "glyph font file (ttf/otf)")
	cmd.Flags().Float64Var(&glyphSize, "glyph-size", 0, "glyph cell size in pixels")
	cmd.Flags().Float64Var(&density, "density", 0, "column density (0.2-2.0)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "fall speed factor")
}

// loadConfig merges the config file, the preset, and the command's
// flags. Flags win over the file, the file wins over the preset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		cfg.Rain = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("font") {
		cfg.Font = fontPath
	}
	if flags.Changed("transition") {
		cfg.Transition = transition
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("glyph-size") {
		cfg.Rain.GlyphSize = glyphSize
	}
	if flags.Changed("density") {
		cfg.Rain.Density = density
	}
	if flags.Changed("speed") {
		cfg.Rain.SpeedFactor = speed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFont(cfg *config.Config) *text.FontSource {
	source, err := render.LoadFont(cfg.Font)
	if err != nil {
		if errors.Is(err, render.ErrNoFont) {
			fmt.Println("no usable font found, rendering without glyphs (use --font)")
			return nil
		}
		fmt.Printf("font: %v, rendering without glyphs\n", err)
		return nil
	}
	return source
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	sim, err := rain.New(settings, cfg.Seed)
	if err != nil {
		return err
	}
	renderer := render.NewRenderer(sim, loadFont(cfg), cfg.Width, cfg.Height)
	return gui.Run(renderer, cfg.Width, cfg.Height)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	return tui.Run(settings, cfg.Seed)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	out := cfg.Output
	if out == "" {
		out = "rain.gif"
	}

	exp, err := export.New(export.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		Duration:   cfg.Duration,
		Seed:       cfg.Seed,
		Transition: cfg.Transition,
		Settings:   settings,
		Font:       loadFont(cfg),
	})
	if err != nil {
		return err
	}

	var sink export.Sink
	asGIF := strings.EqualFold(filepath.Ext(out), ".gif")
	dirExisted := false
	if asGIF {
		sink = export.NewGIFSink(out, cfg.FPS, settings)
	} else {
		_, statErr := os.Stat(out)
		dirExisted = statErr == nil
		pngSink, err := export.NewPNGSink(out)
		if err != nil {
			return err
		}
		sink = pngSink
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	collector := stats.NewCollector()
	sim := exp.Simulator()
	total := exp.FrameCount()

	fmt.Printf("rendering %d frames at %dx%d (%s transition)...\n",
		total, cfg.Width, cfg.Height, cfg.Transition)
	start := time.Now()

	runErr := exp.Run(ctx, sink, func(frame, total int) {
		collector.Observe(sim)
		if frame%cfg.FPS == 0 || frame == total {
			fmt.Printf("\r  %d/%d frames", frame, total)
		}
	})
	fmt.Println()

	if runErr == nil {
		runErr = sink.Close()
	}
	if runErr != nil {
		// Drop partial output rather than leave a broken artifact.
		if asGIF {
			os.Remove(out)
		} else if !dirExisted {
			os.RemoveAll(out)
		}
		return runErr
	}

	elapsed := time.Since(start)

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(store.RunMetadata{
		Seed:       cfg.Seed,
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		Duration:   cfg.Duration,
		Transition: cfg.Transition,
		Frames:     total,
		Output:     out,
		Rain:       config.FromSettings(settings),
		Metrics:    collector.Values(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("output: %s\n", out)
	fmt.Println("\nmetrics:")
	for name, val := range collector.Values() {
		fmt.Printf("  %s: %.4f\n", name, val)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	sim, err := rain.New(settings, cfg.Seed)
	if err != nil {
		return err
	}
	sim.Resize(cfg.Width, cfg.Height)

	steps := int(cfg.Duration * float64(cfg.FPS))
	dt := 1.0 / float64(cfg.FPS)
	active := stats.NewActiveColumns()
	history := make([]float64, 0, steps)

	fmt.Printf("stepping %d frames headless...\n", steps)
	start := time.Now()
	for i := 0; i < steps; i++ {
		sim.UpdateFixed(dt)
		active.Observe(sim)
		history = append(history, active.Last())
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v (%.0f steps/sec)\n\n", elapsed, float64(steps)/elapsed.Seconds())

	graph := asciigraph.Plot(history,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("active columns over time"),
	)
	fmt.Println(graph)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if jsonOut {
		return store.ExportJSONStdout(runs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tFPS\tDURATION\tTRANSITION\tOUTPUT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%.1fs\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width,
			run.Height,
			run.FPS,
			run.Duration,
			run.Transition,
			run.Output,
		)
	}

	return w.Flush()
}
