package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/shipsim/internal/dynamo"
)

// Default is the integrator used when none is named.
const Default = "symplectic"

var registry = map[string]func() dynamo.Integrator{
	"symplectic": func() dynamo.Integrator { return NewSymplecticEuler() },
	"euler":      func() dynamo.Integrator { return NewEuler() },
}

func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
