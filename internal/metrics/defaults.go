package metrics

import (
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
)

// Defaults is the metric set attached to every run of ship.
func Defaults(ship *craft.Spaceship, gravity float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewMaxAltitude(),
		NewMaxAirspeed(),
		NewKineticEnergy(ship.TotalMass()),
		NewMechanicalEnergy(ship.TotalMass(), gravity),
		NewFuelBurned(ship.FuelConsumption()),
		NewControlEffort(),
		NewStability(0),
	}
}
