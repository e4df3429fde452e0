package wheel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spoke is a straight tension member from a rim point to a hub flange hole.
type Spoke struct {
	Theta    float64 // rim attachment angle
	HubTheta float64
	Side     Side

	RimPoint r3.Vec
	HubPoint r3.Vec

	// Dir is the unit vector from rim to hub expressed in the rim's local
	// frame at Theta: lateral, radial (toward the hub), tangential.
	Dir    [3]float64
	Length float64

	Diameter float64
	YoungMod float64
	Density  float64
	Tension  float64
}

func newSpoke(rimR, hubR, hubZ, theta, hubTheta float64, side Side, l Lacing) Spoke {
	// Chord in the local frame at the rim point. A radial spoke gets an
	// exactly zero tangential component.
	dTheta := hubTheta - theta
	d := r3.Vec{
		X: hubZ,
		Y: rimR - hubR*math.Cos(dTheta),
		Z: hubR * math.Sin(dTheta),
	}
	u := r3.Unit(d)

	return Spoke{
		Theta:    theta,
		HubTheta: hubTheta,
		Side:     side,
		RimPoint: polar(rimR, theta, 0),
		HubPoint: polar(hubR, hubTheta, hubZ),
		Dir:      [3]float64{u.X, u.Y, u.Z},
		Length:   r3.Norm(d),
		Diameter: l.Diameter,
		YoungMod: l.YoungMod,
		Density:  l.Density,
	}
}

func (s Spoke) Area() float64 {
	return math.Pi / 4 * s.Diameter * s.Diameter
}

func (s Spoke) EA() float64 {
	return s.YoungMod * s.Area()
}

// Stiffness is the axial stiffness EA/L.
func (s Spoke) Stiffness() float64 {
	return s.EA() / s.Length
}

func (s Spoke) Mass() float64 {
	return s.Area() * s.Density * s.Length
}

// Inertia integrates r² along the spoke, r being the distance from the axle.
func (s Spoke) Inertia() float64 {
	a := r3.Vec{X: s.RimPoint.X, Y: s.RimPoint.Y}
	b := r3.Vec{X: s.HubPoint.X, Y: s.HubPoint.Y}
	return s.Mass() * (r3.Dot(a, a) + r3.Dot(a, b) + r3.Dot(b, b)) / 3
}
