package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/shipsim/internal/automation"
	"github.com/san-kum/shipsim/internal/catalog"
	"github.com/san-kum/shipsim/internal/config"
	"github.com/san-kum/shipsim/internal/control"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/experiment"
	"github.com/san-kum/shipsim/internal/export"
	"github.com/san-kum/shipsim/internal/integrators"
	"github.com/san-kum/shipsim/internal/logging"
	"github.com/san-kum/shipsim/internal/optim"
	"github.com/san-kum/shipsim/internal/parts"
	"github.com/san-kum/shipsim/internal/storage"
	"github.com/san-kum/shipsim/internal/telemetry"
	"github.com/san-kum/shipsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	noColor  bool

	configFile  string
	preset      string
	dt          float64
	duration    float64
	takeoff     float64
	integrator  string
	profile     string
	throttle    float64
	target      float64
	catalogPath string
	shipName    string
	partNames   []string

	quiet  bool
	noSave bool
	every  int

	field    string
	svgField string
	outPath  string
	asCSV    bool
	asSVG    bool
	theme    string

	takeoffs []float64
	limit    int

	tuneParams []string
	metric     string
	maximize   bool

	trials      int
	seed        int64
	pitchSpread float64
	speedSpread float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shipsim",
		Short: "assemble a craft from salvage and fly it",
		Long: "shipsim builds a rigid body from salvaged parts and integrates its flight\n" +
			"under thrust, gravity, drag and lift. Without a subcommand it flies the demo.",
		RunE:          runSimulation,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".shipsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")
	addFlightFlags(rootCmd)
	addOutputFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly a craft and print telemetry",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addFlightFlags(runCmd)
	addOutputFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly interactively in the terminal",
		Long:  "Flies the craft in real time. Without --profile the throttle is manual.",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addFlightFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "hangar", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "altitude", "series to plot ("+strings.Join(telemetry.Fields, ", ")+", all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&asCSV, "csv", false, "export telemetry as CSV")
	exportCmd.Flags().BoolVar(&asSVG, "svg", false, "export the altitude profile as SVG")
	exportCmd.Flags().StringVar(&svgField, "field", "", "with --svg, plot this field against time instead of the profile")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list flight presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	partsCmd := &cobra.Command{
		Use:   "parts",
		Short: "list the salvage catalog",
		Args:  cobra.NoArgs,
		RunE:  listParts,
	}
	partsCmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog file (yaml)")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "print the mass properties of a craft",
		Args:  cobra.NoArgs,
		RunE:  shipSummary,
	}
	addFlightFlags(summaryCmd)
	summaryCmd.Flags().StringVar(&outPath, "svg", "", "also write the wireframe to this SVG file")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "fly the same flight with several integrators",
		RunE:  compareIntegrators,
	}
	addFlightFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "fly the same craft with several takeoff times concurrently",
		Args:  cobra.NoArgs,
		RunE:  sweepTakeoff,
	}
	addFlightFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&takeoffs, "takeoffs", []float64{2, 4, 6, 8}, "takeoff times to compare")
	sweepCmd.Flags().IntVar(&limit, "limit", 0, "maximum concurrent runs (0 = unlimited)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search config values for the best metric",
		Example: "  shipsim tune --preset hover --profile hold --param kp=0.01,0.02,0.04 --param kd=0.05,0.1\n" +
			"  shipsim tune --profile constant --param throttle=0.8,0.9,1 --metric max_altitude --maximize",
		Args: cobra.NoArgs,
		RunE: tuneParameters,
	}
	addFlightFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... ("+strings.Join(optim.ParamNames(), ", ")+")")
	tuneCmd.Flags().StringVar(&metric, "metric", "altitude_rms_error", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize the metric instead of minimizing")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "fly every flight in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	dispersionCmd := &cobra.Command{
		Use:   "dispersion",
		Short: "monte carlo over initial pitch and velocity",
		Args:  cobra.NoArgs,
		RunE:  runDispersion,
	}
	addFlightFlags(dispersionCmd)
	dispersionCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	dispersionCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	dispersionCmd.Flags().Float64Var(&pitchSpread, "pitch-spread", 5, "initial pitch spread in degrees")
	dispersionCmd.Flags().Float64Var(&speedSpread, "speed-spread", 1, "initial velocity spread in m/s per axis")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, partsCmd, summaryCmd,
		compareCmd, sweepCmd, tuneCmd, batchCmd, dispersionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addFlightFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration ("+strings.Join(config.ListPresets(), ", ")+")")
	f.Float64Var(&duration, "duration", config.DefaultDuration, "seconds to simulate")
	f.Float64Var(&dt, "dt", config.DefaultDt, "integration step size")
	f.Float64Var(&takeoff, "takeoff", config.DefaultTakeoff, "seconds before full throttle")
	f.StringVar(&integrator, "integrator", integrators.Default, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	f.StringVar(&profile, "profile", "ramp", "throttle profile ("+strings.Join(append(control.Names(), "schedule"), ", ")+")")
	f.Float64Var(&throttle, "throttle", 1, "throttle for the constant profile")
	f.Float64Var(&target, "target", 0, "target altitude for hold/hover")
	f.StringVar(&catalogPath, "catalog", "", "catalog file (yaml)")
	f.StringVar(&shipName, "ship", catalog.DefaultShipName, "named ship from the catalog")
	f.StringSliceVar(&partNames, "parts", nil, "build from these catalog parts instead of a named ship")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&quiet, "quiet", "q", false, "only print the final state")
	f.BoolVar(&noSave, "no-save", false, "do not store the run")
	f.IntVar(&every, "every", 1, "print every n-th step")
}

// loadConfig layers defaults, preset, config file, SHIPSIM_* environment
// and explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var base *config.Config
	if preset != "" {
		base = config.GetPreset(preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	cfg, err := config.LoadLayered(configFile, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("duration") {
		cfg.Duration = duration
	}
	if flags.Changed("takeoff") {
		cfg.Takeoff = takeoff
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("profile") {
		cfg.Controller = profile
	}
	if flags.Changed("throttle") {
		cfg.ControllerParams.Throttle = throttle
	}
	if flags.Changed("target") {
		cfg.ControllerParams.Target = target
	}
	if flags.Changed("catalog") {
		cfg.Catalog = catalogPath
	}
	if flags.Changed("ship") {
		cfg.Ship = shipName
	}
	if flags.Changed("parts") {
		cfg.Parts = partNames
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	return logging.New(os.Stderr, logging.Options{Level: level, NoColor: noColor})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func setup(cmd *cobra.Command) (*experiment.Experiment, zerolog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := newLogger(cfg.LogLevel)

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(); err != nil {
		return nil, logger, err
	}
	return exp, logger, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	s := exp.GetSimulator()
	s.AddObserver(telemetry.NewLogSink(logging.Sampled(logger, 20, time.Second, 10), every))
	if !quiet {
		fmt.Fprintln(out, exp.Ship().Summary())
		fmt.Fprintln(out, "\nSimulating...")
		s.AddObserver(telemetry.NewTableSink(out, every))
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if quiet && len(result.Snapshots) > 0 {
		fmt.Fprintln(out, result.Snapshots[len(result.Snapshots)-1].String())
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Info(), result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Info().Str("run", runID).Str("dir", dataDir).Msg("run saved")
		fmt.Fprintf(out, "\nrun id: %s\n", runID)
	}

	printMetrics(out, result.Metrics)
	return runErr
}

func printMetrics(out io.Writer, metrics map[string]float64) {
	if len(metrics) == 0 {
		return
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nMETRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.3f\n", name, metrics[name])
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ship, err := cfg.BuildShip()
	if err != nil {
		return err
	}
	integ, err := cfg.BuildIntegrator()
	if err != nil {
		return err
	}

	opts := viz.Options{
		Title:      "shipsim · " + cfg.Ship,
		Ship:       ship,
		Integrator: integ,
		Env:        cfg.Env(),
		Initial:    cfg.InitialState(),
		Dt:         cfg.Dt,
		Theme:      theme,
	}
	if cmd.Flags().Changed("profile") || preset != "" || configFile != "" {
		if opts.Controller, err = cfg.BuildController(); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("duration") {
		opts.Duration = cfg.Duration
	}
	return viz.Run(opts)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCRAFT\tTIME\tDURATION\tDT\tINTEG\tCTRL\tMAX ALT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.3fs\t%s\t%s\t%.1f m\n",
			run.ID,
			run.Craft,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Metrics["max_altitude"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadTelemetry(runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fields := []string{field}
	if field == "all" {
		fields = telemetry.Fields
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "craft: %s (%.0f kg)\n", meta.Craft, meta.Mass)
	fmt.Fprintf(out, "samples: %d\n\n", len(snaps))

	for _, name := range fields {
		fn, ok := telemetry.Field(name)
		if !ok {
			return fmt.Errorf("unknown field: %s", name)
		}
		fmt.Fprintln(out, viz.Plot(telemetry.Series(snaps, fn), name+" vs time", 80, 10))
		fmt.Fprintln(out)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadTelemetry(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if asCSV {
		return telemetry.WriteCSV(out, snaps)
	}
	if asSVG {
		points := export.Profile(snaps)
		if svgField != "" {
			fn, ok := telemetry.Field(svgField)
			if !ok {
				return fmt.Errorf("unknown field: %s", svgField)
			}
			points = export.TimeSeries(snaps, fn)
		}
		return export.WriteSVG(out, export.TrajectoryToSVG(points, 800, 400, "#7dd3fc"))
	}

	info := storage.RunInfo{
		Craft:      meta.Craft,
		Parts:      meta.Parts,
		Mass:       meta.Mass,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Integrator: meta.Integrator,
		Controller: meta.Controller,
	}
	result := &dynamo.Result{
		Snapshots:  snaps,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	return storage.ExportJSON(out, info, result)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPROFILE\tDURATION\tSTART ALT\tPITCH")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%.0fs\t%.0f m\t%.0f°\n", name, p.Controller, p.Duration, p.InitState.Altitude, p.InitState.Pitch)
	}
	return w.Flush()
}

func listParts(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()
	if catalogPath != "" {
		var err error
		if cat, err = catalog.Load(catalogPath); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tMASS\tDETAIL")
	for _, e := range cat.Entries() {
		p, err := e.Part()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f kg\t%s\n", p.Name, p.Kind(), p.TotalMass(), partDetail(p))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, name := range cat.ShipNames() {
		names, _ := cat.ShipParts(name)
		fmt.Fprintf(cmd.OutOrStdout(), "\nship %q: %s\n", name, strings.Join(names, ", "))
	}
	return nil
}

func partDetail(p parts.Part) string {
	switch s := p.Spec.(type) {
	case parts.Cockpit:
		return fmt.Sprintf("crew %d", s.Crew)
	case parts.Hull:
		return fmt.Sprintf("CdA %.2f m²", s.CdA())
	case parts.Tank:
		return fmt.Sprintf("fuel %.0f/%.0f kg", s.FuelMass, s.FuelCapacity)
	case parts.Engine:
		return fmt.Sprintf("%.0f N, %.1f kg/s", s.MaxThrust, s.FuelConsumption)
	case parts.Wing:
		return fmt.Sprintf("%.1f m², slope %.1f", s.Area, s.LiftSlope)
	}
	return ""
}

func shipSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ship, err := cfg.BuildShip()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ship.Summary())

	if outPath == "" {
		return nil
	}
	canvas := viz.NewCanvas(60, 30)
	wf := viz.ShipWireframe(ship)
	viz.Render3D(canvas, wf, viz.NewCamera())
	return os.WriteFile(outPath, []byte(export.CanvasToSVG(canvas, 4)), 0644)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	exp, _, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := exp.Compare(ctx, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL ALT\tMAX ALT\tFINAL SPEED\tFINAL PITCH")
	series := make([][]float64, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		final := r.Result.Snapshots[len(r.Result.Snapshots)-1]
		fmt.Fprintf(w, "%s\t%.3f m\t%.3f m\t%.3f m/s\t%.2f°\n",
			r.Name, final.Altitude, r.Result.Metrics["max_altitude"], final.Airspeed, final.Pitch)
		series[i] = telemetry.Series(r.Result.Snapshots, telemetry.Altitude)
		names[i] = r.Name
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.PlotMany(series, names, "altitude vs time", 80, 10))
	return nil
}

func sweepTakeoff(cmd *cobra.Command, args []string) error {
	exp, _, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := exp.SweepTakeoff(ctx, takeoffs, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tFINAL ALT\tMAX ALT\tMAX SPEED\tFUEL")
	for _, r := range results {
		m := r.Result.Metrics
		fmt.Fprintf(w, "%s\t%.1f m\t%.1f m\t%.1f m/s\t%.1f kg\n",
			r.Name, r.Result.Final.Altitude(), m["max_altitude"], m["max_airspeed"], m["fuel_burned"])
	}
	return w.Flush()
}

func parseParam(s string) (optim.Param, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return optim.Param{}, fmt.Errorf("bad --param %q, want name=v1,v2", s)
	}
	p := optim.Param{Name: strings.TrimSpace(name)}
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return optim.Param{}, fmt.Errorf("bad value in --param %q: %w", s, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

func tuneParameters(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	params := make([]optim.Param, 0, len(tuneParams))
	for _, s := range tuneParams {
		p, err := parseParam(s)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	g, err := optim.NewGridSearch(params...)
	if err != nil {
		return err
	}
	g.Maximize = maximize
	g.Logger = newLogger(cfg.LogLevel)

	ctx, cancel := signalContext()
	defer cancel()

	best, results, err := g.Search(ctx, cfg, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PARAMS\t%s\n", strings.ToUpper(metric))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.4f\n", r, r.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nbest: %s (%s=%.4f)\n", best, metric, best.Value)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	outcomes, runErr := automation.RunScenario(ctx, scenario, st, newLogger(logLevel))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FLIGHT\tFINAL ALT\tMAX ALT\tRUN ID")
	for _, o := range outcomes {
		runID := o.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%.1f m\t%.1f m\t%s\n", o.Name, o.Result.Final.Altitude(), o.Result.Metrics["max_altitude"], runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runDispersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	mc := automation.MonteCarloConfig{
		NumTrials:   trials,
		Seed:        seed,
		PitchSpread: pitchSpread,
		SpeedSpread: speedSpread,
	}
	results, err := automation.RunMonteCarlo(ctx, cfg, mc, newLogger(cfg.LogLevel))
	if err != nil {
		return err
	}

	alts := make([]float64, len(results))
	for i, r := range results {
		alts[i] = r.MaxAltitude
	}
	stable, unstable := automation.MonteCarloStats(results)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trials: %d  stable: %d  unstable: %d\n", len(results), stable, unstable)
	fmt.Fprintln(out, viz.Plot(alts, "max altitude per trial", 80, 10))
	return nil
}
