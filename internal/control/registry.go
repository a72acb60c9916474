package control

import (
	"fmt"
	"sort"

	"github.com/san-kum/shipsim/internal/dynamo"
)

var registry = map[string]func(params map[string]float64) dynamo.Controller{
	"none": func(map[string]float64) dynamo.Controller { return NewNone() },
	"constant": func(params map[string]float64) dynamo.Controller {
		u, ok := params["throttle"]
		if !ok {
			u = 1
		}
		return NewConstant(u)
	},
	"takeoff": func(params map[string]float64) dynamo.Controller {
		return NewTakeoff(params["takeoff"])
	},
	"ramp": func(params map[string]float64) dynamo.Controller {
		return NewRamp(params["takeoff"])
	},
	"hold": func(params map[string]float64) dynamo.Controller {
		p := NewPID(params["kp"], params["ki"], params["kd"], params["target"])
		p.Base = params["hover"]
		return p
	},
	"hover": func(params map[string]float64) dynamo.Controller {
		return NewHover(params["target"], params["hover"])
	},
}

// New builds a named controller from flat parameters.
func New(name string, params map[string]float64) (dynamo.Controller, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	if params == nil {
		params = map[string]float64{}
	}
	return fn(params), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
