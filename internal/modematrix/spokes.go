package modematrix

import (
	"math"

	"Wheelcalc/internal/wheel"

	"gonum.org/v1/gonum/mat"
)

// spokeMatrix is the 3x3 stiffness of one spoke in the rim's local frame:
// EA/L along the spoke and T/L across it.
func spokeMatrix(s wheel.Spoke, tension bool) [3][3]float64 {
	var k [3][3]float64
	ka := s.Stiffness()
	var kt float64
	if tension {
		kt = s.Tension / s.Length
	}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			nn := s.Dir[a] * s.Dir[b]
			k[a][b] = ka*nn - kt*nn
			if a == b {
				k[a][b] += kt
			}
		}
	}
	return k
}

// KSpk is the spoke stiffness. Discrete spokes couple every pair of basis
// functions through their values at the spoke angles. Smeared spokes are
// spread evenly around the rim and only load each harmonic with itself.
func (m *ModeMatrix) KSpk(tension, smeared bool) *mat.SymDense {
	if smeared {
		return m.kSpkSmeared(tension)
	}
	k := mat.NewSymDense(m.dim, nil)
	nb := 2*m.modes + 1
	for _, s := range m.w.Spokes {
		ks := spokeMatrix(s, tension)
		phi := m.basis(s.Theta)
		for p := 0; p < nb; p++ {
			for q := p; q < nb; q++ {
				pq := phi[p] * phi[q]
				if pq == 0 {
					continue
				}
				for a := 0; a < 3; a++ {
					b0 := 0
					if p == q {
						b0 = a
					}
					for b := b0; b < 3; b++ {
						addSym(k, 4*p+a, 4*q+b, pq*ks[a][b])
					}
				}
			}
		}
	}
	return k
}

func (m *ModeMatrix) kSpkSmeared(tension bool) *mat.SymDense {
	var kb [3][3]float64
	for _, s := range m.w.Spokes {
		ks := spokeMatrix(s, tension)
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				kb[a][b] += ks[a][b] / (2 * math.Pi)
			}
		}
	}
	k := mat.NewSymDense(m.dim, nil)
	for p := 0; p < 2*m.modes+1; p++ {
		w := math.Pi
		if p == 0 {
			w = 2 * math.Pi
		}
		for a := 0; a < 3; a++ {
			for b := a; b < 3; b++ {
				addSym(k, 4*p+a, 4*p+b, w*kb[a][b])
			}
		}
	}
	return k
}
