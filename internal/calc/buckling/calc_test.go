package buckling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/wheel/wheeltest"
)

func TestLinearReference(t *testing.T) {
	res, err := Calculate(wheeltest.Reference(t, 3, 0), Input{})
	require.NoError(t, err)

	assert.Equal(t, Linear, res.Approx)
	assert.Equal(t, 2, res.BucklingMode)
	assert.InEpsilon(t, 1787.14, res.BucklingTension, 1e-3)
}

func TestModeThreeIsHigher(t *testing.T) {
	w := wheeltest.Reference(t, 3, 0)
	t2, ok := Critical(w, 2, Linear)
	require.True(t, ok)
	t3, ok := Critical(w, 3, Linear)
	require.True(t, ok)
	assert.Greater(t, t3, t2)
	assert.InEpsilon(t, 2169.36, t3, 1e-3)
}

func TestNonlinearBelowLinear(t *testing.T) {
	w := wheeltest.Reference(t, 3, 0)
	res, err := Calculate(w, Input{Approx: Nonlinear})
	require.NoError(t, err)
	assert.Equal(t, Nonlinear, res.Approx)
	assert.Equal(t, 2, res.BucklingMode)
	assert.InEpsilon(t, 1777.22, res.BucklingTension, 1e-3)

	lin, err := Calculate(w, Input{})
	require.NoError(t, err)
	assert.Less(t, res.BucklingTension, lin.BucklingTension)
}

func TestIndependentOfAppliedTension(t *testing.T) {
	a, err := Calculate(wheeltest.Reference(t, 3, 0), Input{})
	require.NoError(t, err)
	b, err := Calculate(wheeltest.Reference(t, 3, 1200), Input{})
	require.NoError(t, err)
	assert.InEpsilon(t, a.BucklingTension, b.BucklingTension, 1e-12)
}

func TestUnknownApproximation(t *testing.T) {
	_, err := Calculate(wheeltest.Reference(t, 3, 0), Input{Approx: "xyzrandom"})
	assert.ErrorIs(t, err, validate.ErrInvalid)
	assert.EqualError(t, err, "Unknown approximation: xyzrandom")
}

func TestSmallestPositiveRoot(t *testing.T) {
	// (x - 2)(x - 5)
	r, ok := smallestPositiveRoot(1, -7, 10)
	require.True(t, ok)
	assert.InDelta(t, 2, r, 1e-12)

	// (x + 1)(x - 3)
	r, ok = smallestPositiveRoot(1, -2, -3)
	require.True(t, ok)
	assert.InDelta(t, 3, r, 1e-12)

	_, ok = smallestPositiveRoot(1, 0, 1)
	assert.False(t, ok)
}
