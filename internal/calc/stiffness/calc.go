// Package stiffness computes the principal stiffnesses of a wheel by unit
// loads at θ = 0.
package stiffness

import (
	"Wheelcalc/internal/modematrix"
	"Wheelcalc/internal/wheel"
)

const Modes = 20

// Model is the stiffness model used for the unit-load solves.
var Model = modematrix.Options{Tension: true, Curved: true, Smeared: true}

type Input struct{}

type Result struct {
	Success            bool    `json:"success"`
	RadialStiffness    float64 `json:"radial_stiffness"`
	LateralStiffness   float64 `json:"lateral_stiffness"`
	TorsionalStiffness float64 `json:"torsional_stiffness"`
}

func Calculate(w *wheel.Wheel, _ Input) (Result, error) {
	mm, err := modematrix.New(w, Modes)
	if err != nil {
		return Result{}, err
	}
	k := mm.K(Model)

	unit := func(c modematrix.Component) (float64, error) {
		var f [4]float64
		f[c] = 1
		dm, err := modematrix.Solve(k, mm.FExt(0, f))
		if err != nil {
			return 0, err
		}
		return 1 / mm.Field(dm, []float64{0}, c)[0], nil
	}

	rad, err := unit(modematrix.Radial)
	if err != nil {
		return Result{}, err
	}
	lat, err := unit(modematrix.Lateral)
	if err != nil {
		return Result{}, err
	}
	tan, err := unit(modematrix.Tangential)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Success:            true,
		RadialStiffness:    rad,
		LateralStiffness:   lat,
		TorsionalStiffness: w.Rim.Radius * tan,
	}, nil
}
