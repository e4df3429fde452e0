// Package mass reports the mass and rotational inertia of a wheel.
package mass

import (
	"Wheelcalc/internal/wheel"
)

type Input struct{}

type Result struct {
	Success        bool     `json:"success"`
	Warnings       []string `json:"warnings"`
	Mass           float64  `json:"mass"`
	MassRim        float64  `json:"mass_rim"`
	MassSpokes     float64  `json:"mass_spokes"`
	MassRotational float64  `json:"mass_rotational"`
	Inertia        float64  `json:"inertia"`
	InertiaRim     float64  `json:"inertia_rim"`
	InertiaSpokes  float64  `json:"inertia_spokes"`
}

// Calculate sums rim and spoke contributions. MassRotational is the
// translating mass equivalent to the wheel rolling without slip.
func Calculate(w *wheel.Wheel, _ Input) (Result, error) {
	res := Result{
		Success:    true,
		Warnings:   []string{},
		Mass:       w.Mass(),
		MassRim:    w.Rim.Mass(),
		Inertia:    w.Inertia(),
		InertiaRim: w.Rim.Inertia(),
	}
	res.MassSpokes = res.Mass - res.MassRim
	res.InertiaSpokes = res.Inertia - res.InertiaRim
	res.MassRotational = res.Mass + res.Inertia/(w.Rim.Radius*w.Rim.Radius)

	if w.Rim.Density == 0 {
		res.Warnings = append(res.Warnings, "Rim density is 0; rim mass and inertia are excluded")
	}
	for _, s := range w.Spokes {
		if s.Density == 0 {
			res.Warnings = append(res.Warnings, "Spoke density is 0; spoke mass and inertia are excluded")
			break
		}
	}
	return res, nil
}
