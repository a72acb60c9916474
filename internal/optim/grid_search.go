package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/san-kum/shipsim/internal/config"
	"github.com/san-kum/shipsim/internal/experiment"
)

// Param is one config knob and the values to try for it.
type Param struct {
	Name   string
	Values []float64
}

var setters = map[string]func(*config.Config, float64){
	"kp":       func(c *config.Config, v float64) { c.ControllerParams.Kp = v },
	"ki":       func(c *config.Config, v float64) { c.ControllerParams.Ki = v },
	"kd":       func(c *config.Config, v float64) { c.ControllerParams.Kd = v },
	"target":   func(c *config.Config, v float64) { c.ControllerParams.Target = v },
	"hover":    func(c *config.Config, v float64) { c.ControllerParams.Hover = v },
	"throttle": func(c *config.Config, v float64) { c.ControllerParams.Throttle = v },
	"takeoff":  func(c *config.Config, v float64) { c.Takeoff = v },
	"pitch":    func(c *config.Config, v float64) { c.InitState.Pitch = v },
	"altitude": func(c *config.Config, v float64) { c.InitState.Altitude = v },
}

// ParamNames lists the knobs a search may vary.
func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for n := range setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type Trial struct {
	Params map[string]float64
	Value  float64
}

func (t Trial) String() string {
	keys := make([]string, 0, len(t.Params))
	for k := range t.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, t.Params[k])
	}
	return strings.Join(parts, " ")
}

// GridSearch flies every combination of parameter values and keeps the one
// with the best metric. Ties keep the first combination tried.
type GridSearch struct {
	params   []Param
	Maximize bool
	Logger   zerolog.Logger
}

func NewGridSearch(params ...Param) (*GridSearch, error) {
	for _, p := range params {
		if _, ok := setters[p.Name]; !ok {
			return nil, fmt.Errorf("unknown parameter: %s (available: %v)", p.Name, ParamNames())
		}
		if len(p.Values) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", p.Name)
		}
	}
	return &GridSearch{params: params, Logger: zerolog.Nop()}, nil
}

// Search returns the best trial and every trial that completed, in the
// order they were flown. Combinations that fail to set up or run are
// logged and skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Trial, []Trial, error) {
	best := Trial{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	var trials []Trial

	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), metricName, &best, &trials)
	if err != nil {
		return Trial{}, trials, err
	}
	if best.Params == nil {
		return Trial{}, trials, fmt.Errorf("no trial produced metric %q", metricName)
	}
	return best, trials, nil
}

func (g *GridSearch) better(v, best float64) bool {
	if g.Maximize {
		return v > best
	}
	return v < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	base *config.Config,
	current map[string]float64,
	metricName string,
	best *Trial,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		cfg := base.Clone()
		for k, v := range current {
			setters[k](cfg, v)
		}

		exp := experiment.New(cfg, g.Logger)
		if err := exp.Setup(); err != nil {
			g.Logger.Warn().Err(err).Str("params", Trial{Params: current}.String()).Msg("trial setup failed")
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.Logger.Warn().Err(err).Str("params", Trial{Params: current}.String()).Msg("trial failed")
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metricName)
		}
		trial := Trial{Params: current, Value: val}
		*trials = append(*trials, trial)
		g.Logger.Debug().Str("params", trial.String()).Float64(metricName, val).Msg("trial")

		if best.Params == nil || g.better(val, best.Value) {
			*best = trial
		}
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[p.Name] = val

		if err := g.searchRecursive(ctx, depth+1, base, next, metricName, best, trials); err != nil {
			return err
		}
	}
	return nil
}
