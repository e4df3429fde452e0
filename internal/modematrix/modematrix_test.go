package modematrix

import (
	"math"
	"testing"

	"Wheelcalc/internal/wheel"
	"Wheelcalc/internal/wheel/wheeltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func referenceWheel(t *testing.T, numCross int) *wheel.Wheel {
	return wheeltest.Reference(t, numCross, 0)
}

func TestIndexLayout(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), 3)
	require.NoError(t, err)
	assert.Equal(t, 28, mm.Dim())
	assert.Equal(t, 1, mm.Index(Radial, 0, false))
	assert.Equal(t, 4, mm.Index(Lateral, 1, false))
	assert.Equal(t, 8+2, mm.Index(Tangential, 1, true))
	assert.Equal(t, 4*5+3, mm.Index(Torsional, 3, false))
	assert.Equal(t, 4*6+3, mm.Index(Torsional, 3, true))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(referenceWheel(t, 3), 0)
	assert.Error(t, err)

	_, err = New(&wheel.Wheel{}, 4)
	assert.ErrorIs(t, err, wheel.ErrInvalidGeometry)
}

func TestFExtIsBTransposed(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), 4)
	require.NoError(t, err)

	f := [4]float64{0.5, -1, 2, 0.25}
	theta := 1.1
	got := mm.FExt(theta, f)

	var want mat.VecDense
	want.MulVec(mm.BTheta([]float64{theta}).T(), mat.NewVecDense(4, f[:]))
	assert.True(t, mat.EqualApprox(got, &want, 1e-12))

	// Superposition.
	sum := mm.FExt(0.2, [4]float64{0, 1, 0, 0})
	mm.AddFExt(sum, 2.4, [4]float64{1, 0, 0, 0})
	var both mat.VecDense
	both.AddVec(mm.FExt(0.2, [4]float64{0, 1, 0, 0}), mm.FExt(2.4, [4]float64{1, 0, 0, 0}))
	assert.True(t, mat.EqualApprox(sum, &both, 1e-12))
}

func TestFieldEmpty(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), 2)
	require.NoError(t, err)
	assert.Empty(t, mm.Field(mat.NewVecDense(mm.Dim(), nil), nil, Radial))
}

func TestFieldMatchesBTheta(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), 4)
	require.NoError(t, err)

	dm := mat.NewVecDense(mm.Dim(), nil)
	for i := 0; i < mm.Dim(); i++ {
		dm.SetVec(i, math.Sin(float64(i)+0.3))
	}
	theta := []float64{0, 0.7, 2.1, 5.9}
	for _, c := range AllComponents {
		var want mat.VecDense
		want.MulVec(mm.BTheta(theta, c), dm)
		assert.InDeltaSlice(t, want.RawVector().Data, mm.Field(dm, theta, c), 1e-12, c.String())
	}
}

func TestFieldManyAngles(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), DefaultModes)
	require.NoError(t, err)

	dm := mat.NewVecDense(mm.Dim(), nil)
	dm.SetVec(mm.Index(Radial, 0, false), 1)
	theta := make([]float64, 10000)
	var got []float64
	allocs := testing.AllocsPerRun(1, func() {
		got = mm.Field(dm, theta, Radial)
	})
	require.Len(t, got, len(theta))
	assert.Equal(t, 1.0, got[len(got)-1])
	assert.LessOrEqual(t, allocs, 2.0)
}

func TestStiffnessMatrixSymmetricAndPositive(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), 6)
	require.NoError(t, err)

	k := mm.K(Engineering)
	for i := 0; i < mm.Dim(); i++ {
		assert.Greater(t, k.At(i, i), 0.0, "diagonal %d", i)
	}
	var chol mat.Cholesky
	assert.True(t, chol.Factorize(k))
}

func TestSmearedPointStiffness(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), 20)
	require.NoError(t, err)
	k := mm.K(Options{Tension: true, Curved: true, Smeared: true})

	cases := []struct {
		comp Component
		want float64
	}{
		{Radial, 4255534.38869831},
		{Lateral, 94150.65602356319},
	}
	for _, tc := range cases {
		t.Run(tc.comp.String(), func(t *testing.T) {
			var f [4]float64
			f[tc.comp] = 1
			dm, err := Solve(k, mm.FExt(0, f))
			require.NoError(t, err)
			d := mm.Field(dm, []float64{0}, tc.comp)[0]
			assert.InEpsilon(t, tc.want, 1/d, 1e-6)
		})
	}
}

func TestSpokeTensionChangeUnderRadialLoad(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), DefaultModes)
	require.NoError(t, err)

	dm, err := Solve(mm.K(Engineering), mm.FExt(0, [4]float64{0, 1, 0, 0}))
	require.NoError(t, err)

	dT := mm.SpokeTensionChange(dm, nil)
	require.Len(t, dT, 36)
	assert.InEpsilon(t, -0.4117197104970742, dT[0], 1e-6)
}

func TestSpokeTensionChangeUnderAdjustment(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), DefaultModes)
	require.NoError(t, err)

	a := make([]float64, 36)
	a[0] = 0.001
	f, err := mm.AdjustmentForce(a)
	require.NoError(t, err)
	dm, err := Solve(mm.K(Engineering), f)
	require.NoError(t, err)

	dT := mm.SpokeTensionChange(dm, a)
	assert.InEpsilon(t, 771.8033786298678, dT[0], 1e-6)

	_, err = mm.AdjustmentForce(a[:3])
	assert.Error(t, err)
}

func TestUniformAdjustmentGivesUniformTension(t *testing.T) {
	mm, err := New(referenceWheel(t, 3), DefaultModes)
	require.NoError(t, err)

	a := make([]float64, 36)
	for i := range a {
		a[i] = 0.001
	}
	f, err := mm.AdjustmentForce(a)
	require.NoError(t, err)
	dm, err := Solve(mm.K(Engineering), f)
	require.NoError(t, err)

	dT := mm.SpokeTensionChange(dm, a)
	var mean float64
	for _, v := range dT {
		mean += v / float64(len(dT))
	}
	for i, v := range dT {
		assert.LessOrEqual(t, math.Abs(v-mean)/mean, 0.01, "spoke %d", i)
	}
}

func TestUntensionedRadialWheelIsSingular(t *testing.T) {
	mm, err := New(referenceWheel(t, 0), 8)
	require.NoError(t, err)

	_, err = Solve(mm.K(Engineering), mm.FExt(0, [4]float64{0, 0, 1, 0}))
	assert.ErrorIs(t, err, ErrSingular)
}

func TestTensionSoftensRim(t *testing.T) {
	w := referenceWheel(t, 3)
	w.ApplyTension(1000)
	mm, err := New(w, 4)
	require.NoError(t, err)

	plain := mm.KRim(false, true)
	tensioned := mm.KRim(true, true)
	i := mm.Index(Lateral, 2, false)
	assert.Less(t, tensioned.At(i, i), plain.At(i, i))

	// n = 1 radial translation carries no geometric term.
	j := mm.Index(Radial, 1, true)
	assert.InDelta(t, plain.At(j, j), tensioned.At(j, j), 1e-9*plain.At(j, j))
}

func TestFlatRimDecouplesTwist(t *testing.T) {
	w := referenceWheel(t, 3)
	kuu, kup, kpp := OutOfPlane(w.Rim, 3, false)
	assert.Zero(t, kup)
	assert.Greater(t, kuu, 0.0)
	assert.Greater(t, kpp, 0.0)

	_, kupc, _ := OutOfPlane(w.Rim, 3, true)
	assert.Less(t, kupc, 0.0)
}
