package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/integrators"
	"github.com/san-kum/shipsim/internal/physics"
)

type Simulator struct {
	integrator dynamo.Integrator
	controller dynamo.Controller
	env        physics.Environment
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     zerolog.Logger
}

type Option func(*Simulator)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(integrator dynamo.Integrator, controller dynamo.Controller, env physics.Environment, opts ...Option) *Simulator {
	s := &Simulator{
		integrator: integrator,
		controller: controller,
		env:        env,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Environment() physics.Environment { return s.env }

// SetEnvironment replaces the environment used by subsequent steps.
func (s *Simulator) SetEnvironment(env physics.Environment) { s.env = env }

// Step advances x by one timestep starting at time t and returns the new
// state with the throttle that was applied.
func (s *Simulator) Step(ship *craft.Spaceship, x dynamo.State, t, dt float64) (dynamo.State, float64, error) {
	u := s.controller.Throttle(x, t)
	loads := physics.Compute(x, ship, s.env, u)

	next, err := s.integrator.Step(x, loads, ship.Body(), dt)
	if err != nil {
		return x, u, err
	}
	if s.env.Ground {
		next, _ = integrators.ClampToGround(next, s.env.GroundAltitude)
	}
	return next, u, nil
}

// Run integrates from x0 for cfg.Duration. The first snapshot is the
// initial state at t=0; one more follows every step. Errors from the
// integrator abort the run and are returned as *dynamo.SimulationError
// alongside the partial result.
func (s *Simulator) Run(ctx context.Context, ship *craft.Spaceship, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validate(ship, cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &dynamo.Result{
		Snapshots: make([]dynamo.Snapshot, 0, steps+1),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := s.initial(x0)
	u := s.controller.Throttle(x, 0)
	s.emit(result, dynamo.NewSnapshot(0, 0, x, u))

	s.logger.Info().
		Int("steps", steps).
		Float64("dt", cfg.Dt).
		Float64("mass", ship.TotalMass()).
		Float64("max_thrust", ship.MaxThrust()).
		Msg("run started")

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, x)
			s.logger.Warn().Int("step", i).Err(ctx.Err()).Msg("run cancelled")
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		next, u, err := s.Step(ship, x, t, cfg.Dt)
		if err != nil {
			return s.abort(result, x, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err})
		}
		if cfg.ValidateState && !next.IsValid() {
			return s.abort(result, x, &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState})
		}

		x = next
		result.StepsTaken++
		s.emit(result, dynamo.NewSnapshot(i+1, float64(i+1)*cfg.Dt, x, u))
	}

	s.finish(result, x)
	s.logger.Info().
		Int("steps", result.StepsTaken).
		Float64("altitude", x.Altitude()).
		Float64("airspeed", x.Airspeed()).
		Msg("run finished")

	return result, nil
}

// RunWithCallback steps until the duration elapses or callback returns
// false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, ship *craft.Spaceship, x0 dynamo.State, cfg dynamo.Config, callback func(dynamo.Snapshot) bool) error {
	if err := s.validate(ship, cfg); err != nil {
		return err
	}

	x := s.initial(x0)
	if !callback(dynamo.NewSnapshot(0, 0, x, s.controller.Throttle(x, 0))) {
		return nil
	}

	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		next, u, err := s.Step(ship, x, t, cfg.Dt)
		if err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
		}
		if cfg.ValidateState && !next.IsValid() {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		x = next

		if !callback(dynamo.NewSnapshot(i+1, float64(i+1)*cfg.Dt, x, u)) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) validate(ship *craft.Spaceship, cfg dynamo.Config) error {
	if ship == nil {
		return fmt.Errorf("%w: no craft", dynamo.ErrInvalidAssembly)
	}
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidTimestep, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

func (s *Simulator) initial(x0 dynamo.State) dynamo.State {
	x := x0
	if x.Orientation.W == 0 && x.Orientation.V.Len() == 0 {
		x.Orientation = dynamo.NewState(x.Position).Orientation
	}
	if s.env.Ground {
		x, _ = integrators.ClampToGround(x, s.env.GroundAltitude)
	}
	return x
}

func (s *Simulator) emit(result *dynamo.Result, snap dynamo.Snapshot) {
	result.Snapshots = append(result.Snapshots, snap)
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
}

func (s *Simulator) finish(result *dynamo.Result, x dynamo.State) {
	result.Final = x
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) abort(result *dynamo.Result, x dynamo.State, err *dynamo.SimulationError) (*dynamo.Result, error) {
	s.finish(result, x)
	s.logger.Error().Int("step", err.Step).Float64("t", err.Time).Err(err.Wrapped).Msg("run aborted")
	return result, err
}
