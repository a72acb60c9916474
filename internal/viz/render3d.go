package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/shipsim/internal/craft"
	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/parts"
)

// Camera sits at y = -Distance looking along +y at the origin, after rotating
// the scene by RotX, RotY and RotZ.
type Camera struct {
	RotX, RotY, RotZ float64
	Distance         float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{RotX: -0.3, RotZ: 0.4, Distance: 15, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotation() mgl64.Quat {
	return mgl64.AnglesToQuat(c.RotX, c.RotY, c.RotZ, mgl64.XYZ)
}

// Project maps a world point to dot coordinates on a sw x sh screen, with
// world z pointing up the screen. ok is false behind the camera.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (x, y int, depth float64, ok bool) {
	r := c.rotation().Rotate(p)
	depth = c.Distance + r[1]
	if depth <= 0.1 {
		return 0, 0, depth, false
	}
	scale := c.Zoom * float64(sh) / depth
	x = sw/2 + int(math.Round(r[0]*scale))
	y = sh/2 - int(math.Round(r[2]*scale))
	return x, y, depth, true
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct {
	Edges []Edge
}

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

// Transform returns the wireframe rotated by q and moved by offset.
func (w *Wireframe) Transform(q mgl64.Quat, offset mgl64.Vec3) *Wireframe {
	out := &Wireframe{Edges: make([]Edge, len(w.Edges))}
	for i, e := range w.Edges {
		out.Edges[i] = Edge{q.Rotate(e.Start).Add(offset), q.Rotate(e.End).Add(offset)}
	}
	return out
}

func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	sw, sh := c.Dots()
	for _, e := range w.Edges {
		x0, y0, _, ok0 := cam.Project(e.Start, sw, sh)
		x1, y1, _, ok1 := cam.Project(e.End, sw, sh)
		if ok0 && ok1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

// ShipWireframe sketches a craft in body axes about its center of mass: a
// spine along the nose, a strut to every part, a span line per wing and a
// nozzle per engine.
func ShipWireframe(ship *craft.Spaceship) *Wireframe {
	w := NewWireframe()
	com := ship.CenterOfMass()

	lo, hi := 0.0, 0.0
	ship.Each(func(p parts.Part) {
		lever := p.Position.Sub(com)
		lo, hi = math.Min(lo, lever.Dot(dynamo.Nose)), math.Max(hi, lever.Dot(dynamo.Nose))

		w.AddEdge(mgl64.Vec3{}, lever)
		switch spec := p.Spec.(type) {
		case parts.Wing:
			chord, _ := spec.Axes()
			chord = p.ToCraft(chord).Mul(0.6)
			w.AddEdge(lever.Sub(chord), lever.Add(chord))
		case parts.Engine:
			w.AddEdge(lever, lever.Sub(p.ToCraft(spec.Axis())))
		}
	})
	w.AddEdge(dynamo.Nose.Mul(lo-0.5), dynamo.Nose.Mul(hi+1))
	return w
}

// Axes draws the world axes at the origin.
func Axes(l float64) *Wireframe {
	w := NewWireframe()
	w.AddEdge(mgl64.Vec3{}, mgl64.Vec3{l, 0, 0})
	w.AddEdge(mgl64.Vec3{}, mgl64.Vec3{0, l, 0})
	w.AddEdge(mgl64.Vec3{}, mgl64.Vec3{0, 0, l})
	return w
}
