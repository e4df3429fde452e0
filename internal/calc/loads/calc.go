// Package loads turns the forces and spoke adjustments of a result block
// into generalized forces and solves for the modal displacement.
package loads

import (
	"bytes"
	"encoding/json"

	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/modematrix"

	"gonum.org/v1/gonum/mat"
)

// Force is a point load on the rim, given either as a magnitude list
// [f_lat, f_rad, f_tan, m_tor] (shorter lists are zero-padded) or by name.
type Force struct {
	Location  *float64  `json:"location"`
	Magnitude []float64 `json:"magnitude,omitempty"`
	FLat      float64   `json:"f_lat,omitempty"`
	FRad      float64   `json:"f_rad,omitempty"`
	FTan      float64   `json:"f_tan,omitempty"`
	MTor      float64   `json:"m_tor,omitempty"`
}

func (f Force) components() ([4]float64, error) {
	var out [4]float64
	if f.Magnitude == nil {
		return [4]float64{f.FLat, f.FRad, f.FTan, f.MTor}, nil
	}
	if len(f.Magnitude) > 4 {
		return out, validate.Errorf("Force magnitude has %d components, at most 4 allowed", len(f.Magnitude))
	}
	copy(out[:], f.Magnitude)
	return out, nil
}

type SpokeAdjustment struct {
	Spoke      int     `json:"spoke"`
	Adjustment float64 `json:"adjustment"`
}

// Adjustments is either a full per-spoke list of length changes or a sparse
// list of {spoke, adjustment} entries. Positive values tighten.
type Adjustments struct {
	Full   []float64
	Sparse []SpokeAdjustment
}

func (a *Adjustments) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) > 0 && bytes.HasPrefix(bytes.TrimSpace(raw[0]), []byte("{")) {
		return json.Unmarshal(b, &a.Sparse)
	}
	return json.Unmarshal(b, &a.Full)
}

func (a Adjustments) MarshalJSON() ([]byte, error) {
	if a.Sparse != nil {
		return json.Marshal(a.Sparse)
	}
	return json.Marshal(a.Full)
}

// Vector expands the adjustments to one value per spoke.
func (a Adjustments) Vector(numSpokes int) ([]float64, error) {
	out := make([]float64, numSpokes)
	if a.Sparse != nil {
		for _, s := range a.Sparse {
			if s.Spoke < 0 || s.Spoke >= numSpokes {
				return nil, validate.Errorf("Invalid spoke index %d", s.Spoke)
			}
			out[s.Spoke] += s.Adjustment
		}
		return out, nil
	}
	if len(a.Full) != numSpokes {
		return nil, validate.Errorf("Expected %d spoke adjustments, got %d", numSpokes, len(a.Full))
	}
	copy(out, a.Full)
	return out, nil
}

// Case is the load case shared by the tension and deformation blocks.
type Case struct {
	Forces           []Force      `json:"forces,omitempty"`
	SpokeAdjustments *Adjustments `json:"spoke_adjustments,omitempty"`
}

// Vector builds the generalized force vector. The adjustment vector is nil
// when the case has no spoke adjustments.
func (c Case) Vector(mm *modematrix.ModeMatrix) (*mat.VecDense, []float64, error) {
	if c.Forces == nil && c.SpokeAdjustments == nil {
		return nil, nil, validate.Errorf("Missing or invalid forces object")
	}
	f := mm.FExt(0, [4]float64{})
	for _, force := range c.Forces {
		if force.Location == nil {
			return nil, nil, validate.Errorf("Force location is required")
		}
		comps, err := force.components()
		if err != nil {
			return nil, nil, err
		}
		mm.AddFExt(f, *force.Location, comps)
	}

	if c.SpokeAdjustments == nil {
		return f, nil, nil
	}
	a, err := c.SpokeAdjustments.Vector(len(mm.Wheel().Spokes))
	if err != nil {
		return nil, nil, err
	}
	fa, err := mm.AdjustmentForce(a)
	if err != nil {
		return nil, nil, err
	}
	f.AddVec(f, fa)
	return f, a, nil
}

// Solve returns the modal displacement of the load case under the
// engineering stiffness model.
func (c Case) Solve(mm *modematrix.ModeMatrix) (dm *mat.VecDense, a []float64, err error) {
	f, a, err := c.Vector(mm)
	if err != nil {
		return nil, nil, err
	}
	dm, err = modematrix.Solve(mm.K(modematrix.Engineering), f)
	if err != nil {
		return nil, nil, err
	}
	return dm, a, nil
}
