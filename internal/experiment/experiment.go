package experiment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/san-kum/shipsim/internal/config"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/integrators"
	"github.com/san-kum/shipsim/internal/metrics"
	"github.com/san-kum/shipsim/internal/sim"
	"github.com/san-kum/shipsim/internal/storage"
)

// Experiment wires a config into a ready-to-run simulator.
type Experiment struct {
	cfg       *config.Config
	ship      *craft.Spaceship
	simulator *sim.Simulator
	logger    zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) *Experiment {
	return &Experiment{cfg: cfg, logger: logger}
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	ship, err := e.cfg.BuildShip()
	if err != nil {
		return fmt.Errorf("build ship: %w", err)
	}
	integrator, err := e.cfg.BuildIntegrator()
	if err != nil {
		return err
	}
	controller, err := e.cfg.BuildController()
	if err != nil {
		return err
	}

	e.ship = ship
	e.simulator = sim.New(integrator, controller, e.cfg.Env(), sim.WithLogger(e.logger))
	for _, m := range e.metrics() {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) metrics() []dynamo.Metric {
	ms := metrics.Defaults(e.ship, e.cfg.Environment.Gravity)
	switch e.cfg.Controller {
	case "hold", "hover":
		ms = append(ms, metrics.NewAltitudeError(e.cfg.ControllerParams.Target))
	}
	return ms
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.ship, e.cfg.InitialState(), e.cfg.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Ship() *craft.Spaceship { return e.ship }

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Info() storage.RunInfo {
	info := storage.RunInfo{
		Craft:      e.cfg.Ship,
		Parts:      e.cfg.PartNames(),
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
		Integrator: e.cfg.Integrator,
		Controller: e.cfg.Controller,
	}
	if len(e.cfg.Parts) > 0 {
		info.Craft = "custom"
	}
	if e.ship != nil {
		info.Mass = e.ship.TotalMass()
	}
	return info
}

// Compare runs the configured flight once per integrator.
func (e *Experiment) Compare(ctx context.Context, names []string) ([]sim.CaseResult, error) {
	if e.ship == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if len(names) == 0 {
		names = integrators.Names()
	}

	out := make([]sim.CaseResult, 0, len(names))
	for _, name := range names {
		integrator, err := integrators.New(name)
		if err != nil {
			return nil, err
		}
		controller, err := e.cfg.BuildController()
		if err != nil {
			return nil, err
		}

		s := sim.New(integrator, controller, e.cfg.Env(), sim.WithLogger(e.logger.With().Str("integrator", name).Logger()))
		for _, m := range e.metrics() {
			s.AddMetric(m)
		}
		res, err := s.Run(ctx, e.ship, e.cfg.InitialState(), e.cfg.SimConfig())
		if err != nil {
			return nil, fmt.Errorf("integrator %s: %w", name, err)
		}
		out = append(out, sim.CaseResult{Name: name, Result: res})
	}
	return out, nil
}

// SweepTakeoff flies the configured controller once per takeoff time,
// concurrently.
func (e *Experiment) SweepTakeoff(ctx context.Context, takeoffs []float64, limit int) ([]sim.CaseResult, error) {
	if e.ship == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	cases := make([]sim.Case, 0, len(takeoffs))
	for _, at := range takeoffs {
		cfg := e.cfg.Clone()
		cfg.Takeoff = at
		controller, err := cfg.BuildController()
		if err != nil {
			return nil, err
		}
		cases = append(cases, sim.Case{
			Name:       "takeoff=" + strconv.FormatFloat(at, 'g', -1, 64),
			Controller: controller,
		})
	}

	sw := &sim.Sweep{
		Integrator: func() dynamo.Integrator {
			i, err := e.cfg.BuildIntegrator()
			if err != nil {
				return integrators.NewSymplecticEuler()
			}
			return i
		},
		Metrics: e.metrics,
		Env:     e.cfg.Env(),
		Limit:   limit,
		Logger:  e.logger,
	}
	return sw.Run(ctx, e.ship, e.cfg.InitialState(), e.cfg.SimConfig(), cases)
}
