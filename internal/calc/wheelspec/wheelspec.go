// Package wheelspec is the request form of a wheel. Build validates every
// field once and reports all problems together.
package wheelspec

import (
	"fmt"

	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/wheel"

	"go.uber.org/multierr"
)

const SectionGeneral = "general"

type Hub struct {
	Diameter    *float64 `json:"diameter,omitempty" yaml:"diameter,omitempty"`
	DiameterDS  *float64 `json:"diameter_ds,omitempty" yaml:"diameter_ds,omitempty"`
	DiameterNDS *float64 `json:"diameter_nds,omitempty" yaml:"diameter_nds,omitempty"`
	WidthDS     *float64 `json:"width_ds" yaml:"width_ds"`
	WidthNDS    *float64 `json:"width_nds" yaml:"width_nds"`
}

type SectionParams struct {
	Area  *float64 `json:"area" yaml:"area"`
	IRad  *float64 `json:"I_rad" yaml:"I_rad"`
	ILat  *float64 `json:"I_lat" yaml:"I_lat"`
	JTor  *float64 `json:"J_tor" yaml:"J_tor"`
	IWarp *float64 `json:"I_warp,omitempty" yaml:"I_warp,omitempty"`
}

type Rim struct {
	Radius        *float64       `json:"radius" yaml:"radius"`
	YoungMod      *float64       `json:"young_mod" yaml:"young_mod"`
	ShearMod      *float64       `json:"shear_mod" yaml:"shear_mod"`
	Density       *float64       `json:"density,omitempty" yaml:"density,omitempty"`
	SectionType   string         `json:"section_type" yaml:"section_type"`
	SectionParams *SectionParams `json:"section_params" yaml:"section_params"`
}

type Spokes struct {
	Num      *int     `json:"num" yaml:"num"`
	NumCross *int     `json:"num_cross" yaml:"num_cross"`
	Diameter *float64 `json:"diameter" yaml:"diameter"`
	YoungMod *float64 `json:"young_mod" yaml:"young_mod"`
	Density  *float64 `json:"density,omitempty" yaml:"density,omitempty"`
	Offset   *float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
	Tension  *float64 `json:"tension,omitempty" yaml:"tension,omitempty"`
}

type Wheel struct {
	Hub       *Hub    `json:"hub" yaml:"hub"`
	Rim       *Rim    `json:"rim" yaml:"rim"`
	Spokes    *Spokes `json:"spokes,omitempty" yaml:"spokes,omitempty"`
	SpokesDS  *Spokes `json:"spokes_ds,omitempty" yaml:"spokes_ds,omitempty"`
	SpokesNDS *Spokes `json:"spokes_nds,omitempty" yaml:"spokes_nds,omitempty"`
}

// fields collects missing and out-of-range values.
type fields struct {
	err error
}

func (f *fields) add(err error) {
	f.err = multierr.Append(f.err, err)
}

func (f *fields) positive(name string, v *float64) float64 {
	if v == nil {
		f.add(validate.Errorf("%s is required", name))
		return 0
	}
	if !(*v > 0) {
		f.add(validate.Errorf("%s must be positive", name))
	}
	return *v
}

func (f *fields) nonNegative(name string, v *float64) float64 {
	if v == nil {
		return 0
	}
	if !(*v >= 0) {
		f.add(validate.Errorf("%s must not be negative", name))
	}
	return *v
}

func optional(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (f *fields) integer(name string, v *int) int {
	if v == nil {
		f.add(validate.Errorf("%s is required", name))
		return 0
	}
	return *v
}

func (h *Hub) parse(f *fields) wheel.Hub {
	if h == nil {
		f.add(validate.Errorf("hub is required"))
		return wheel.Hub{}
	}
	var ds, nds float64
	if h.DiameterDS != nil || h.DiameterNDS != nil {
		ds = f.positive("hub.diameter_ds", h.DiameterDS)
		nds = f.positive("hub.diameter_nds", h.DiameterNDS)
	} else {
		ds = f.positive("hub.diameter", h.Diameter)
		nds = ds
	}
	return wheel.Hub{
		DiameterDS:  ds,
		DiameterNDS: nds,
		WidthDS:     f.positive("hub.width_ds", h.WidthDS),
		WidthNDS:    f.positive("hub.width_nds", h.WidthNDS),
	}
}

func (r *Rim) parse(f *fields) wheel.Rim {
	if r == nil {
		f.add(validate.Errorf("rim is required"))
		return wheel.Rim{}
	}
	out := wheel.Rim{
		Radius:   f.positive("rim.radius", r.Radius),
		YoungMod: f.positive("rim.young_mod", r.YoungMod),
		ShearMod: f.positive("rim.shear_mod", r.ShearMod),
		Density:  f.nonNegative("rim.density", r.Density),
	}
	if r.SectionType != SectionGeneral {
		f.add(validate.Errorf("Invalid rim section type '%s'", r.SectionType))
		return out
	}
	p := r.SectionParams
	if p == nil {
		f.add(validate.Errorf("rim.section_params is required"))
		return out
	}
	out.Section = wheel.Section{
		Area:  f.positive("rim.section_params.area", p.Area),
		IRad:  f.positive("rim.section_params.I_rad", p.IRad),
		ILat:  f.positive("rim.section_params.I_lat", p.ILat),
		JTor:  f.positive("rim.section_params.J_tor", p.JTor),
		IWarp: f.nonNegative("rim.section_params.I_warp", p.IWarp),
	}
	return out
}

func (s *Spokes) parse(f *fields, name string) wheel.Lacing {
	return wheel.Lacing{
		Num:      f.integer(name+".num", s.Num),
		NumCross: f.integer(name+".num_cross", s.NumCross),
		Diameter: f.positive(name+".diameter", s.Diameter),
		YoungMod: f.positive(name+".young_mod", s.YoungMod),
		Density:  f.nonNegative(name+".density", s.Density),
		Offset:   optional(s.Offset),
	}
}

// Build validates the request and returns a laced, tensioned wheel. The
// drive-side tension is applied with the non-drive side balanced.
func (w Wheel) Build() (*wheel.Wheel, error) {
	var f fields
	hub := w.Hub.parse(&f)
	rim := w.Rim.parse(&f)

	var lace func(*wheel.Wheel) error
	var tension *float64
	switch {
	case w.Spokes != nil:
		l := w.Spokes.parse(&f, "spokes")
		tension = w.Spokes.Tension
		lace = func(wh *wheel.Wheel) error { return wh.LaceCross(l) }
	case w.SpokesDS != nil && w.SpokesNDS != nil:
		ds := w.SpokesDS.parse(&f, "spokes_ds")
		nds := w.SpokesNDS.parse(&f, "spokes_nds")
		tension = w.SpokesDS.Tension
		lace = func(wh *wheel.Wheel) error {
			return multierr.Combine(wh.LaceCrossDS(ds), wh.LaceCrossNDS(nds))
		}
	default:
		f.add(validate.Errorf("Missing or invalid spokes definition"))
	}
	if f.err != nil {
		return nil, f.err
	}

	out := wheel.New(hub, rim)
	if err := lace(out); err != nil {
		return nil, validate.Errorf("%v", err)
	}
	out.ApplyTension(optional(tension))
	if err := out.Validate(); err != nil {
		return nil, validate.Errorf("%v", err)
	}
	return out, nil
}

// Describe is a one-line summary used in logs and reports.
func (w Wheel) Describe() string {
	switch {
	case w.Spokes != nil && w.Spokes.Num != nil && w.Spokes.NumCross != nil:
		return fmt.Sprintf("%d spokes, %d-cross", *w.Spokes.Num, *w.Spokes.NumCross)
	case w.SpokesDS != nil && w.SpokesNDS != nil && w.SpokesDS.Num != nil && w.SpokesNDS.Num != nil:
		return fmt.Sprintf("%d+%d spokes", *w.SpokesDS.Num, *w.SpokesNDS.Num)
	}
	return "wheel"
}
