// Package deformation evaluates rim displacements under a load case.
package deformation

import (
	"Wheelcalc/internal/calc/loads"
	"Wheelcalc/internal/calc/selector"
	"Wheelcalc/internal/modematrix"
	"Wheelcalc/internal/wheel"
)

type Input struct {
	loads.Case
	Theta      selector.Floats `json:"theta,omitempty"`
	ThetaRange []float64       `json:"theta_range,omitempty"`
}

type Result struct {
	Success bool      `json:"success"`
	Theta   []float64 `json:"theta"`
	DefLat  []float64 `json:"def_lat"`
	DefRad  []float64 `json:"def_rad"`
	DefTan  []float64 `json:"def_tan"`
	DefTor  []float64 `json:"def_tor"`
}

func Calculate(w *wheel.Wheel, in Input) (Result, error) {
	theta, err := selector.Theta(in.Theta, in.ThetaRange)
	if err != nil {
		return Result{}, err
	}
	mm, err := modematrix.New(w, modematrix.DefaultModes)
	if err != nil {
		return Result{}, err
	}
	dm, _, err := in.Solve(mm)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Success: true,
		Theta:   theta,
		DefLat:  mm.Field(dm, theta, modematrix.Lateral),
		DefRad:  mm.Field(dm, theta, modematrix.Radial),
		DefTan:  mm.Field(dm, theta, modematrix.Tangential),
		DefTor:  mm.Field(dm, theta, modematrix.Torsional),
	}, nil
}
