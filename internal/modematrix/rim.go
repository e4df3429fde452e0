package modematrix

import (
	"math"

	"Wheelcalc/internal/wheel"

	"gonum.org/v1/gonum/mat"
)

// OutOfPlane returns the lateral/twist stiffness of one cosine (or sine)
// term of harmonic n >= 1.
//
// Curved-beam kinematics: lateral curvature u''/R² + φ/R, twist rate
// (φ' - u'/R)/R and warping from the derivative of the twist rate. The flat
// form drops the coupling through R so lateral bending and twist separate.
func OutOfPlane(r wheel.Rim, n int, curved bool) (kuu, kup, kpp float64) {
	R := r.Radius
	EI := r.YoungMod * r.Section.ILat
	GJ := r.ShearMod * r.Section.JTor
	EIw := r.YoungMod * r.Section.IWarp
	n2 := float64(n * n)
	n4 := n2 * n2

	if !curved {
		return math.Pi * EI * n4 / (R * R * R), 0, math.Pi * (GJ*n2 + EIw*n4/(R*R)) / R
	}
	kuu = math.Pi*(EI*n4+GJ*n2)/(R*R*R) + math.Pi*EIw*n4/math.Pow(R, 5)
	kup = -math.Pi*(EI+GJ)*n2/(R*R) - math.Pi*EIw*n4/math.Pow(R, 4)
	kpp = math.Pi*(EI+GJ*n2)/R + math.Pi*EIw*n4/(R*R*R)
	return kuu, kup, kpp
}

// CondensedLateral is the lateral stiffness of harmonic n with the twist
// eliminated, (n²-1)² EI·C / (EI + n² C) scaled by π n²/R³.
func CondensedLateral(r wheel.Rim, n int) float64 {
	R := r.Radius
	EI := r.YoungMod * r.Section.ILat
	n2 := float64(n * n)
	CT := r.ShearMod*r.Section.JTor + r.YoungMod*r.Section.IWarp*n2/(R*R)
	return math.Pi * n2 * (n2 - 1) * (n2 - 1) * EI * CT / (R * R * R * (EI + n2*CT))
}

// InPlane returns the radial/tangential stiffness of harmonic n >= 1 for
// the pair (v cos nθ, w sin nθ). The pair (v sin nθ, w cos nθ) has the same
// terms with kvw negated.
//
// Hoop strain is (w' - v)/R. Curvature change is (w' + v'')/R² for the
// curved form and v''/R² for the flat form.
func InPlane(r wheel.Rim, n int, curved bool) (kvv, kvw, kww float64) {
	R := r.Radius
	EA := r.YoungMod * r.Section.Area
	EI := r.YoungMod * r.Section.IRad
	nf := float64(n)
	n2 := nf * nf
	R3 := R * R * R

	kvv = math.Pi * (EA/R + EI*n2*n2/R3)
	if !curved {
		return kvv, -math.Pi * EA * nf / R, math.Pi * n2 * EA / R
	}
	kvw = -math.Pi * (EA*nf/R + EI*n2*nf/R3)
	kww = math.Pi * n2 * (EA/R + EI/R3)
	return kvv, kvw, kww
}

// Compression is the mean rim compressive force from spoke tension.
func Compression(w *wheel.Wheel) float64 {
	var sum float64
	for _, s := range w.Spokes {
		sum += s.Tension
	}
	return sum / (2 * math.Pi)
}

// GyrationSquared is the polar radius of gyration of the rim section.
func GyrationSquared(r wheel.Rim) float64 {
	return (r.Section.IRad + r.Section.ILat) / r.Section.Area
}

// KRim is the rim stiffness. With tension, the mean rim compression lowers
// the lateral, radial and twist terms of every harmonic.
func (m *ModeMatrix) KRim(tension, curved bool) *mat.SymDense {
	r := m.w.Rim
	R := r.Radius
	k := mat.NewSymDense(m.dim, nil)

	// Uniform hoop strain and uniform roll of the section.
	k.SetSym(int(Radial), int(Radial), 2*math.Pi*r.YoungMod*r.Section.Area/R)
	k.SetSym(int(Torsional), int(Torsional), 2*math.Pi*r.YoungMod*r.Section.ILat/R)

	var C float64
	if tension {
		C = Compression(m.w)
	}
	r02 := GyrationSquared(r)

	for n := 1; n <= m.modes; n++ {
		kuu, kup, kpp := OutOfPlane(r, n, curved)
		kvv, kvw, kww := InPlane(r, n, curved)
		n2 := float64(n * n)
		if C != 0 {
			kuu -= math.Pi * C * n2 / R
			kvv -= math.Pi * C * (n2 - 1) / R
			kpp -= math.Pi * C * r02 * n2 / R
		}

		for _, sine := range []bool{false, true} {
			u := m.Index(Lateral, n, sine)
			v := m.Index(Radial, n, sine)
			w := m.Index(Tangential, n, sine)
			p := m.Index(Torsional, n, sine)
			addSym(k, u, u, kuu)
			addSym(k, u, p, kup)
			addSym(k, p, p, kpp)
			addSym(k, v, v, kvv)
			addSym(k, w, w, kww)
		}
		addSym(k, m.Index(Radial, n, false), m.Index(Tangential, n, true), kvw)
		addSym(k, m.Index(Radial, n, true), m.Index(Tangential, n, false), -kvw)
	}
	return k
}
