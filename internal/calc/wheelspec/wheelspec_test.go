package wheelspec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/wheel"
	"Wheelcalc/internal/wheel/wheeltest"
)

func reference(t *testing.T) Wheel {
	t.Helper()
	var w Wheel
	require.NoError(t, json.Unmarshal([]byte(wheeltest.WheelJSON), &w))
	return w
}

func TestBuildReference(t *testing.T) {
	got, err := reference(t).Build()
	require.NoError(t, err)

	want := wheeltest.Reference(t, 3, 0)
	require.Len(t, got.Spokes, len(want.Spokes))
	assert.Equal(t, want.Rim, got.Rim)
	assert.Equal(t, want.Hub, got.Hub)
	for i := range want.Spokes {
		assert.InDelta(t, want.Spokes[i].Theta, got.Spokes[i].Theta, 1e-15)
		assert.Equal(t, want.Spokes[i].Side, got.Spokes[i].Side)
	}
}

func TestBuildAppliesTension(t *testing.T) {
	w := reference(t)
	tension := 1000.0
	w.Spokes.Tension = &tension

	got, err := w.Build()
	require.NoError(t, err)
	for _, s := range got.Spokes {
		assert.InDelta(t, 1000, s.Tension, 1e-9)
	}
}

func TestBuildTwoSided(t *testing.T) {
	w := reference(t)
	ds := *w.Spokes
	nds := *w.Spokes
	num := 18
	nds.Num, ds.Num = &num, &num
	w.Spokes, w.SpokesDS, w.SpokesNDS = nil, &ds, &nds

	got, err := w.Build()
	require.NoError(t, err)
	assert.Len(t, got.Spokes, 36)
	assert.Equal(t, wheel.DriveSide, got.Spokes[0].Side)
	assert.Equal(t, wheel.NonDriveSide, got.Spokes[1].Side)
}

func TestBuildUnequalFlanges(t *testing.T) {
	w := reference(t)
	ds, nds := 0.06, 0.04
	w.Hub.Diameter, w.Hub.DiameterDS, w.Hub.DiameterNDS = nil, &ds, &nds

	got, err := w.Build()
	require.NoError(t, err)
	assert.Equal(t, 0.06, got.Hub.DiameterDS)
	assert.Equal(t, 0.04, got.Hub.DiameterNDS)
}

func TestBuildSectionType(t *testing.T) {
	w := reference(t)
	w.Rim.SectionType = "box"
	_, err := w.Build()
	assert.EqualError(t, err, "Invalid rim section type 'box'")
}

func TestBuildAggregatesErrors(t *testing.T) {
	w := reference(t)
	w.Hub.WidthDS = nil
	neg := -1.0
	w.Rim.Radius = &neg
	w.Spokes.Diameter = nil

	_, err := w.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, validate.ErrInvalid)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Contains(t, err.Error(), "hub.width_ds is required")
	assert.Contains(t, err.Error(), "rim.radius must be positive")
	assert.Contains(t, err.Error(), "spokes.diameter is required")
}

func TestBuildMissingBlocks(t *testing.T) {
	_, err := Wheel{}.Build()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)

	w := reference(t)
	odd := 35
	w.Spokes.Num = &odd
	_, err = w.Build()
	assert.ErrorIs(t, err, validate.ErrInvalid)
}
