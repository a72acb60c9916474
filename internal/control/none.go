package control

import "github.com/san-kum/shipsim/internal/dynamo"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Throttle(x dynamo.State, t float64) float64 {
	return 0
}
