// Package buckling finds the spoke tension at which the rim buckles
// laterally, scanning circumferential mode numbers.
package buckling

import (
	"math"

	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/modematrix"
	"Wheelcalc/internal/wheel"
)

type Approx string

const (
	Linear    Approx = "linear"
	Nonlinear Approx = "nonlinear"
)

const (
	MinMode = 2
	MaxMode = 20
	// Patience is the number of consecutive modes that may fail to improve
	// on the minimum before the scan stops.
	Patience = 3
)

type Input struct {
	Approx Approx `json:"approx,omitempty"`
}

type Result struct {
	Success         bool    `json:"success"`
	Approx          Approx  `json:"approx"`
	BucklingTension float64 `json:"buckling_tension"`
	BucklingMode    int     `json:"buckling_mode"`
}

// coefficients are the mode-independent sums over the spokes for a tension
// pattern t_s of unit mean.
type coefficients struct {
	ks      float64 // smeared lateral spoke stiffness per harmonic
	sumT    float64
	sumTByL float64
}

func newCoefficients(w *wheel.Wheel) coefficients {
	var c coefficients
	pattern := w.TensionPattern()
	for i, s := range w.Spokes {
		c.ks += s.Stiffness() * s.Dir[0] * s.Dir[0] / 2
		c.sumT += pattern[i]
		c.sumTByL += pattern[i] / s.Length
	}
	return c
}

// den is the rate at which unit mean tension removes lateral stiffness from
// mode n: rim compression minus the restoring pull of the spokes.
func (c coefficients) den(n int, radius float64) float64 {
	n2 := float64(n * n)
	return n2*c.sumT/(2*radius) - c.sumTByL/2
}

// Critical returns the buckling tension of mode n, or ok == false when the
// mode cannot buckle.
func Critical(w *wheel.Wheel, n int, approx Approx) (tc float64, ok bool) {
	return critical(w, newCoefficients(w), n, approx)
}

func critical(w *wheel.Wheel, c coefficients, n int, approx Approx) (float64, bool) {
	R := w.Rim.Radius
	d := c.den(n, R)
	if d <= 0 {
		return 0, false
	}
	if approx == Linear {
		tc := (modematrix.CondensedLateral(w.Rim, n) + c.ks) / d
		return tc, tc > 0
	}

	// det [[A - T d, B], [B, C - T e]] = 0
	kuu, kup, kpp := modematrix.OutOfPlane(w.Rim, n, true)
	A, B, C := kuu+c.ks, kup, kpp
	e := math.Pi * (c.sumT / (2 * math.Pi)) * modematrix.GyrationSquared(w.Rim) * float64(n*n) / R
	return smallestPositiveRoot(d*e, -(A*e + C*d), A*C-B*B)
}

func smallestPositiveRoot(a, b, c float64) (float64, bool) {
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	q := -(b + math.Copysign(math.Sqrt(disc), b)) / 2
	var roots []float64
	if q != 0 {
		roots = append(roots, c/q)
	}
	if a != 0 {
		roots = append(roots, q/a)
	}
	best, ok := math.Inf(1), false
	for _, r := range roots {
		if r > 0 && r < best {
			best, ok = r, true
		}
	}
	return best, ok
}

func Calculate(w *wheel.Wheel, in Input) (Result, error) {
	approx := in.Approx
	if approx == "" {
		approx = Linear
	}
	if approx != Linear && approx != Nonlinear {
		return Result{}, validate.Errorf("Unknown approximation: %s", approx)
	}

	c := newCoefficients(w)
	best, mode, misses := math.Inf(1), 0, 0
	for n := MinMode; n <= MaxMode && misses < Patience; n++ {
		tc, ok := critical(w, c, n, approx)
		if ok && tc < best {
			best, mode, misses = tc, n, 0
			continue
		}
		misses++
	}
	if mode == 0 {
		return Result{}, validate.Errorf("No buckling mode found between %d and %d", MinMode, MaxMode)
	}
	return Result{
		Success:         true,
		Approx:          approx,
		BucklingTension: best,
		BucklingMode:    mode,
	}, nil
}
