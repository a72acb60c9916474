package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/shipsim/internal/config"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/experiment"
	"github.com/san-kum/shipsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of flights.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Flights     []Flight `yaml:"flights"`
}

// Flight starts from a preset (or the defaults) and overlays the keys given
// under config. Only keys present in the file change.
type Flight struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	Save   bool      `yaml:"save"`
}

// Resolve builds the validated config for one flight.
func (f Flight) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.Preset != "" {
		if cfg = config.GetPreset(f.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", f.Preset)
		}
	}
	if !f.Config.IsZero() {
		if err := f.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Flights) == 0 {
		return nil, fmt.Errorf("scenario %q has no flights", scenario.Name)
	}
	return &scenario, nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

type Outcome struct {
	Name   string
	RunID  string
	Result *dynamo.Result
}

// RunScenario flies every flight in order. Flights marked save are written
// to store when it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger zerolog.Logger) ([]Outcome, error) {
	results := make([]Outcome, 0, len(scenario.Flights))

	for i, flight := range scenario.Flights {
		name := flight.Name
		if name == "" {
			name = fmt.Sprintf("flight-%d", i+1)
		}
		log := logger.With().Str("flight", name).Logger()
		log.Info().Int("index", i+1).Int("of", len(scenario.Flights)).Msg("running flight")

		cfg, err := flight.Resolve()
		if err != nil {
			return results, fmt.Errorf("flight %d (%s): %w", i+1, name, err)
		}

		exp := experiment.New(cfg, log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("flight %d (%s) setup: %w", i+1, name, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("flight %d (%s) run: %w", i+1, name, err)
		}

		out := Outcome{Name: name, Result: result}
		if flight.Save && store != nil {
			info := exp.Info()
			info.Craft = name
			if out.RunID, err = store.Save(info, result); err != nil {
				return results, fmt.Errorf("flight %d (%s) save: %w", i+1, name, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// MonteCarloConfig scatters the initial state of a flight.
type MonteCarloConfig struct {
	NumTrials   int
	Seed        int64
	PitchSpread float64 // degrees
	SpeedSpread float64 // m/s per axis
}

type MonteCarloResult struct {
	TrialID     int
	Pitch       float64
	Velocity    [3]float64
	Final       dynamo.State
	MaxAltitude float64
	Stable      bool
}

// RunMonteCarlo flies cfg NumTrials times with the initial pitch and
// velocity perturbed uniformly within the configured spreads. A trial is
// stable when its final state is finite and every step stayed finite.
func RunMonteCarlo(ctx context.Context, cfg *config.Config, mc MonteCarloConfig, logger zerolog.Logger) ([]MonteCarloResult, error) {
	if mc.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", mc.NumTrials)
	}
	results := make([]MonteCarloResult, 0, mc.NumTrials)

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for trial := 0; trial < mc.NumTrials; trial++ {
		tc := cfg.Clone()
		tc.InitState.Pitch += (rng.Float64() - 0.5) * 2 * mc.PitchSpread
		for i := range tc.InitState.Velocity {
			tc.InitState.Velocity[i] += (rng.Float64() - 0.5) * 2 * mc.SpeedSpread
		}

		exp := experiment.New(tc, logger)
		if err := exp.Setup(); err != nil {
			return results, err
		}
		result, err := exp.Run(ctx)
		if err != nil && ctx.Err() != nil {
			return results, ctx.Err()
		}

		r := MonteCarloResult{
			TrialID:  trial,
			Pitch:    tc.InitState.Pitch,
			Velocity: tc.InitState.Velocity,
			Stable:   err == nil,
		}
		if result != nil {
			r.Final = result.Final
			r.MaxAltitude = result.Metrics["max_altitude"]
			r.Stable = r.Stable && result.Final.IsValid() && result.Metrics["stability"] == 1 &&
				!math.IsInf(r.MaxAltitude, 0)
		}
		results = append(results, r)

		if (trial+1)%10 == 0 {
			logger.Info().Int("done", trial+1).Int("of", mc.NumTrials).Msg("monte carlo progress")
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
