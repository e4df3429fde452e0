// Package modematrix expands rim displacements in circumferential Fourier
// modes and assembles the generalized stiffness and force terms of a wheel.
//
// Each of the four displacement fields (lateral u, radial v toward the hub,
// tangential w, twist φ) is written as a constant plus N cosine and N sine
// harmonics. Basis function p is 1 for p = 0, cos(nθ) for p = 2n-1 and
// sin(nθ) for p = 2n; component c of basis function p sits at 4p+c.
package modematrix

import (
	"fmt"
	"math"
	"sync"

	"Wheelcalc/internal/wheel"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const DefaultModes = 24

type Component int

const (
	Lateral Component = iota
	Radial
	Tangential
	Torsional
)

var AllComponents = []Component{Lateral, Radial, Tangential, Torsional}

func (c Component) String() string {
	switch c {
	case Lateral:
		return "lateral"
	case Radial:
		return "radial"
	case Tangential:
		return "tangential"
	case Torsional:
		return "torsional"
	}
	return fmt.Sprintf("component(%d)", int(c))
}

// Options select the stiffness model.
type Options struct {
	Tension bool // include pretension (geometric) stiffness
	Curved  bool // curved-beam rim kinematics instead of the flat-beam form
	Smeared bool // spokes as a continuous ring instead of discrete members
}

// Engineering is the model used for deflection and tension results.
var Engineering = Options{Tension: true, Curved: true}

type ModeMatrix struct {
	w     *wheel.Wheel
	modes int
	dim   int

	adjOnce sync.Once
	adj     *mat.Dense
}

func New(w *wheel.Wheel, modes int) (*ModeMatrix, error) {
	if modes < 1 {
		return nil, fmt.Errorf("modematrix: mode count must be at least 1, got %d", modes)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &ModeMatrix{w: w, modes: modes, dim: 4 * (2*modes + 1)}, nil
}

func (m *ModeMatrix) Modes() int { return m.modes }

// Dim is the number of generalized coordinates.
func (m *ModeMatrix) Dim() int { return m.dim }

func (m *ModeMatrix) Wheel() *wheel.Wheel { return m.w }

// Index locates component c of harmonic n (sine term when sine is set).
func (m *ModeMatrix) Index(c Component, n int, sine bool) int {
	if n == 0 {
		return int(c)
	}
	p := 2*n - 1
	if sine {
		p++
	}
	return 4*p + int(c)
}

// basis evaluates all 2N+1 basis functions at theta.
func (m *ModeMatrix) basis(theta float64) []float64 {
	return m.basisInto(make([]float64, 2*m.modes+1), theta)
}

func (m *ModeMatrix) basisInto(phi []float64, theta float64) []float64 {
	phi[0] = 1
	for n := 1; n <= m.modes; n++ {
		s, c := math.Sincos(float64(n) * theta)
		phi[2*n-1] = c
		phi[2*n] = s
	}
	return phi
}

// BTheta maps a modal vector to field values. Rows are ordered by theta
// first, then by component.
func (m *ModeMatrix) BTheta(theta []float64, comps ...Component) *mat.Dense {
	if len(comps) == 0 {
		comps = AllComponents
	}
	b := mat.NewDense(len(theta)*len(comps), m.dim, nil)
	for i, t := range theta {
		phi := m.basis(t)
		for j, c := range comps {
			row := i*len(comps) + j
			for p, v := range phi {
				b.Set(row, 4*p+int(c), v)
			}
		}
	}
	return b
}

// Field evaluates one displacement component of dm at each theta.
func (m *ModeMatrix) Field(dm mat.Vector, theta []float64, c Component) []float64 {
	out := make([]float64, len(theta))
	phi := make([]float64, 2*m.modes+1)
	for i, t := range theta {
		out[i] = m.at(dm, m.basisInto(phi, t), c)
	}
	return out
}

// at is component c of dm at the point whose basis values are phi.
func (m *ModeMatrix) at(dm mat.Vector, phi []float64, c Component) float64 {
	var v float64
	for p, b := range phi {
		v += b * dm.AtVec(4*p+int(c))
	}
	return v
}

// FExt is the generalized force of a point load f = [f_lat, f_rad, f_tan,
// m_tor] at theta. Loads superpose by vector addition.
func (m *ModeMatrix) FExt(theta float64, f [4]float64) *mat.VecDense {
	out := mat.NewVecDense(m.dim, nil)
	m.AddFExt(out, theta, f)
	return out
}

func (m *ModeMatrix) AddFExt(dst *mat.VecDense, theta float64, f [4]float64) {
	phi := m.basis(theta)
	for c, fc := range f {
		if fc == 0 {
			continue
		}
		for p, v := range phi {
			i := 4*p + c
			dst.SetVec(i, dst.AtVec(i)+fc*v)
		}
	}
}

// AAdj maps spoke length adjustments (positive tightens) to generalized
// forces. Built on first use and read-only afterwards.
func (m *ModeMatrix) AAdj() *mat.Dense {
	m.adjOnce.Do(func() {
		a := mat.NewDense(m.dim, len(m.w.Spokes), nil)
		for s, spk := range m.w.Spokes {
			k := spk.Stiffness()
			phi := m.basis(spk.Theta)
			for c := 0; c < 3; c++ {
				for p, v := range phi {
					a.Set(4*p+c, s, k*spk.Dir[c]*v)
				}
			}
		}
		m.adj = a
	})
	return m.adj
}

// AdjustmentForce returns AAdj·a.
func (m *ModeMatrix) AdjustmentForce(a []float64) (*mat.VecDense, error) {
	if len(a) != len(m.w.Spokes) {
		return nil, fmt.Errorf("modematrix: got %d adjustments for %d spokes", len(a), len(m.w.Spokes))
	}
	out := mat.NewVecDense(m.dim, nil)
	out.MulVec(m.AAdj(), mat.NewVecDense(len(a), append([]float64(nil), a...)))
	return out, nil
}

// SpokeTensionChange returns the tension change of every spoke for the
// modal displacement dm and length adjustments a (nil for none). Rim motion
// toward the hub along a spoke slackens it.
func (m *ModeMatrix) SpokeTensionChange(dm mat.Vector, a []float64) []float64 {
	out := make([]float64, len(m.w.Spokes))
	u := make([]float64, 3)
	for s, spk := range m.w.Spokes {
		phi := m.basis(spk.Theta)
		for c := range u {
			u[c] = m.at(dm, phi, Component(c))
		}
		stretch := -floats.Dot(spk.Dir[:], u)
		if a != nil {
			stretch += a[s]
		}
		out[s] = spk.Stiffness() * stretch
	}
	return out
}

// K assembles the full stiffness matrix for the given model options.
func (m *ModeMatrix) K(opts Options) *mat.SymDense {
	var k mat.SymDense
	k.AddSym(m.KRim(opts.Tension, opts.Curved), m.KSpk(opts.Tension, opts.Smeared))
	return &k
}

func addSym(k *mat.SymDense, i, j int, v float64) {
	k.SetSym(i, j, k.At(i, j)+v)
}
