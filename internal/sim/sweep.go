package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/physics"
	"golang.org/x/sync/errgroup"
)

// Case is one run of a sweep. Controllers may keep state, so every case
// needs its own instance.
type Case struct {
	Name       string
	Controller dynamo.Controller
}

type CaseResult struct {
	Name   string
	Result *dynamo.Result
}

// Sweep runs independent simulations of one craft concurrently. The craft
// is shared; each run owns its state, integrator and metrics.
type Sweep struct {
	Integrator func() dynamo.Integrator
	Metrics    func() []dynamo.Metric
	Env        physics.Environment
	Limit      int
	Logger     zerolog.Logger
}

// Run returns results in the order of cases. The first failing run cancels
// the rest.
func (sw *Sweep) Run(ctx context.Context, ship *craft.Spaceship, x0 dynamo.State, cfg dynamo.Config, cases []Case) ([]CaseResult, error) {
	if sw.Integrator == nil {
		return nil, fmt.Errorf("%w: sweep has no integrator", dynamo.ErrInvalidConfig)
	}

	results := make([]CaseResult, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	if sw.Limit > 0 {
		g.SetLimit(sw.Limit)
	}

	for i, c := range cases {
		g.Go(func() error {
			logger := sw.Logger.With().Str("case", c.Name).Logger()
			s := New(sw.Integrator(), c.Controller, sw.Env, WithLogger(logger))
			if sw.Metrics != nil {
				for _, m := range sw.Metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, ship, x0, cfg)
			if err != nil {
				return fmt.Errorf("case %s: %w", c.Name, err)
			}
			results[i] = CaseResult{Name: c.Name, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
