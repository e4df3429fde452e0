// Package wheeltest provides the reference wheel used across tests: a 36
// spoke 3-cross wheel on a 0.3 m aluminium rim with no pretension.
package wheeltest

import (
	"testing"

	"Wheelcalc/internal/wheel"

	"github.com/stretchr/testify/require"
)

// WheelJSON is the reference wheel in request form.
const WheelJSON = `{
	"hub": {"diameter": 0.05, "width_ds": 0.025, "width_nds": 0.025},
	"rim": {
		"radius": 0.3,
		"young_mod": 69e9,
		"shear_mod": 26e9,
		"density": 2700,
		"section_type": "general",
		"section_params": {
			"area": 100e-6,
			"I_rad": 1.4492753623188406e-09,
			"I_lat": 2.898550724637681e-09,
			"J_tor": 9.615384615384616e-10
		}
	},
	"spokes": {
		"num": 36,
		"num_cross": 3,
		"diameter": 1.8e-3,
		"young_mod": 210e9,
		"density": 8000,
		"offset": 0,
		"tension": 0
	}
}`

// Reference builds the reference wheel with the given crossing number and
// drive-side tension.
func Reference(tb testing.TB, numCross int, tension float64) *wheel.Wheel {
	tb.Helper()
	hub, err := wheel.NewHub(0.05, 0.05, 0.025, 0.025)
	require.NoError(tb, err)
	rim, err := wheel.NewRim(0.3, wheel.Section{
		Area: 100e-6,
		IRad: 100 / 69e9,
		ILat: 200 / 69e9,
		JTor: 25 / 26e9,
	}, 69e9, 26e9, 2700)
	require.NoError(tb, err)

	w := wheel.New(hub, rim)
	require.NoError(tb, w.LaceCross(wheel.Lacing{
		Num:      36,
		NumCross: numCross,
		Diameter: 1.8e-3,
		YoungMod: 210e9,
		Density:  8000,
	}))
	w.ApplyTension(tension)
	return w
}
