package stiffness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wheelcalc/internal/modematrix"
	"Wheelcalc/internal/wheel/wheeltest"
)

func TestReferenceWheel(t *testing.T) {
	res, err := Calculate(wheeltest.Reference(t, 3, 0), Input{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.InEpsilon(t, 4255534.38869831, res.RadialStiffness, 1e-6)
	assert.InEpsilon(t, 94150.65602356319, res.LateralStiffness, 1e-6)
	assert.InEpsilon(t, 108891.17398367148, res.TorsionalStiffness, 1e-6)
}

func TestPositiveAndFinite(t *testing.T) {
	for _, cross := range []int{1, 2, 3, 4} {
		res, err := Calculate(wheeltest.Reference(t, cross, 800), Input{})
		require.NoError(t, err, "cross %d", cross)
		for _, k := range []float64{res.RadialStiffness, res.LateralStiffness, res.TorsionalStiffness} {
			assert.Greater(t, k, 0.0)
			assert.False(t, math.IsInf(k, 0))
		}
	}
}

func TestRadialUntensionedIsSingular(t *testing.T) {
	_, err := Calculate(wheeltest.Reference(t, 0, 0), Input{})
	assert.ErrorIs(t, err, modematrix.ErrSingular)
}
