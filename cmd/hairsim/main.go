package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/hairsim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	sceneFile  string

	// run/live overrides
	frames    int
	frameDt   float64
	rate      string
	timeStep  float64
	minSteps  int
	maxSteps  int
	seed      int64
	editor    bool
	saveState string
	loadState string
	svgFile   string
	fixedDt   bool
	numRuns   int

	// gather/distance queries
	center  []float64
	extents []float64
	point   []float64
	axis    []float64
	size    []float64
	pointB  []float64
	radius  float64
	major   float64
	minor   float64
	noSort  bool
	noQuery bool

	plotWidth  int
	plotHeight int
	outFile    string
)

// logger is configured from --log-level before any command runs.
var logger = log.New(os.Stderr)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hairsim",
		Short:         "strand boundary gathering and step accumulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hairsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run an offline simulation and store it",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&saveState, "save-state", "", "write the final accumulator to this file")
	runCmd.Flags().StringVar(&loadState, "load-state", "", "resume from an accumulator file")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final strand pose as svg")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "play the simulation in a 3D window",
		RunE:  runView,
	}
	addSimFlags(viewCmd)
	viewCmd.Flags().BoolVar(&fixedDt, "fixed", false, "play every frame with --frame-dt instead of wall time")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a run over consecutive seeds and average its metrics",
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	gatherCmd := &cobra.Command{
		Use:   "gather",
		Short: "gather the boundaries of a scene around a query box",
		RunE:  gatherScene,
	}
	gatherCmd.Flags().StringVar(&sceneFile, "scene", "", "scene file (yaml)")
	gatherCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	gatherCmd.Flags().Float64SliceVar(&center, "center", []float64{0, 0, 0}, "query center")
	gatherCmd.Flags().Float64SliceVar(&extents, "extents", []float64{1, 1, 1}, "query half extents")
	gatherCmd.Flags().BoolVar(&noSort, "no-sort", false, "order by handle instead of proximity")
	gatherCmd.Flags().BoolVar(&noQuery, "no-query", false, "only use explicitly assigned boundaries")

	distanceCmd := &cobra.Command{
		Use:   "distance [capsule|sphere|torus|cube]",
		Short: "evaluate the signed distance of one shape at a point",
		Args:  cobra.ExactArgs(1),
		RunE:  evalDistance,
	}
	distanceCmd.Flags().Float64SliceVar(&point, "point", []float64{0, 0, 0}, "sample point")
	distanceCmd.Flags().Float64SliceVar(&center, "center", []float64{0, 0, 0}, "shape center (capsule: first end)")
	distanceCmd.Flags().Float64SliceVar(&pointB, "end", []float64{0, 1, 0}, "capsule second end")
	distanceCmd.Flags().Float64SliceVar(&axis, "axis", []float64{0, 1, 0}, "torus axis")
	distanceCmd.Flags().Float64SliceVar(&size, "size", []float64{1, 1, 1}, "cube size")
	distanceCmd.Flags().Float64Var(&radius, "radius", 0.5, "sphere/capsule radius")
	distanceCmd.Flags().Float64Var(&major, "major", 1, "torus major radius")
	distanceCmd.Flags().Float64Var(&minor, "minor", 0.25, "torus minor radius")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-10s rate=%s max=%s frames=%d\n", name, p.Strands.Rate, limitString(p.Strands.StepsMax.Enabled, p.Strands.StepsMax.Value), p.Frames.Count)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot steps per frame of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-frame data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	stateCmd := &cobra.Command{
		Use:   "state [file]",
		Short: "print a saved accumulator",
		Args:  cobra.ExactArgs(1),
		RunE:  showState,
	}

	rootCmd.AddCommand(runCmd, liveCmd, viewCmd, ensembleCmd, gatherCmd, distanceCmd, presetsCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, stateCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "scene file (yaml)")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of rendered frames")
	cmd.Flags().Float64Var(&frameDt, "frame-dt", config.DefaultFrameDt, "rendered frame time")
	cmd.Flags().StringVar(&rate, "rate", config.Rate60Hz, "simulation rate (30hz, 60hz, 120hz, custom)")
	cmd.Flags().Float64Var(&timeStep, "time-step", config.DefaultTimeStep, "custom simulation time step")
	cmd.Flags().IntVar(&minSteps, "min-steps", -1, "minimum steps per frame (negative keeps config)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", -1, "maximum steps per frame (0 disables, negative keeps config)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for frame jitter")
	cmd.Flags().BoolVar(&editor, "editor", false, "simulate as if in the editor, not playing")
}

func setupLogger(level string) error {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(lvl)
	logger.SetReportTimestamp(true)
	return nil
}

func limitString(enabled bool, value int) string {
	if !enabled {
		return "off"
	}
	return fmt.Sprintf("%d", value)
}
