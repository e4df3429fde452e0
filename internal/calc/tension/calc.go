// Package tension reports spoke tension changes under a load case.
package tension

import (
	"fmt"

	"Wheelcalc/internal/calc/loads"
	"Wheelcalc/internal/calc/selector"
	"Wheelcalc/internal/modematrix"
	"Wheelcalc/internal/wheel"
)

type Input struct {
	loads.Case
	Spokes      selector.Ints `json:"spokes,omitempty"`
	SpokesRange []float64     `json:"spokes_range,omitempty"`
}

type Result struct {
	Success        bool      `json:"success"`
	Warnings       []string  `json:"warnings"`
	Spokes         []int     `json:"spokes"`
	Tension        []float64 `json:"tension"`
	TensionInitial []float64 `json:"tension_initial"`
	TensionChange  []float64 `json:"tension_change"`
}

func Calculate(w *wheel.Wheel, in Input) (Result, error) {
	spokes, err := selector.Spokes(len(w.Spokes), in.Spokes, in.SpokesRange)
	if err != nil {
		return Result{}, err
	}
	mm, err := modematrix.New(w, modematrix.DefaultModes)
	if err != nil {
		return Result{}, err
	}
	dm, a, err := in.Solve(mm)
	if err != nil {
		return Result{}, err
	}
	dT := mm.SpokeTensionChange(dm, a)

	res := Result{
		Success:        true,
		Warnings:       []string{},
		Spokes:         spokes,
		Tension:        make([]float64, len(spokes)),
		TensionInitial: make([]float64, len(spokes)),
		TensionChange:  make([]float64, len(spokes)),
	}
	for i, s := range spokes {
		t0 := w.Spokes[s].Tension
		res.TensionInitial[i] = t0
		res.TensionChange[i] = dT[s]
		res.Tension[i] = t0 + dT[s]
		if res.Tension[i] < 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Spoke %d has negative tension %.1f N", s, res.Tension[i]))
		}
	}
	return res, nil
}
