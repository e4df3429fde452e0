package request

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"Wheelcalc/internal/calc/buckling"
	"Wheelcalc/internal/calc/deformation"
	"Wheelcalc/internal/wheel"
	"Wheelcalc/internal/wheel/wheeltest"
)

func body(t *testing.T, blocks map[string]any) []byte {
	t.Helper()
	req := map[string]any{"wheel": json.RawMessage(wheeltest.WheelJSON)}
	for k, v := range blocks {
		req[k] = v
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return b
}

func post(t *testing.T, h *Handler, b []byte) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader(b)))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func newHandler(t *testing.T) *Handler {
	return &Handler{Eval: NewEvaluator(zaptest.NewLogger(t)), MaxBody: 1 << 20}
}

func block(t *testing.T, out map[string]any, name string) map[string]any {
	t.Helper()
	b, ok := out[name].(map[string]any)
	require.True(t, ok, "missing block %q", name)
	return b
}

func TestAllBlocks(t *testing.T) {
	code, out := post(t, newHandler(t), body(t, map[string]any{
		"tension":          map[string]any{"forces": []any{map[string]any{"location": 0, "magnitude": []float64{0, 1, 0, 0}}}, "spokes": []int{0}},
		"deformation":      map[string]any{"forces": []any{map[string]any{"location": 0, "f_rad": 1}}, "theta_range": []float64{0, 3.14159, 10}},
		"stiffness":        map[string]any{},
		"buckling_tension": map[string]any{},
		"mass":             map[string]any{},
	}))
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, out["wheel"])

	ten := block(t, out, "tension")
	assert.Equal(t, true, ten["success"])
	assert.InEpsilon(t, -0.4117197104970742, ten["tension_change"].([]any)[0].(float64), 1e-6)

	def := block(t, out, "deformation")
	assert.Len(t, def["theta"], 10)
	assert.Len(t, def["def_tor"], 10)

	stiff := block(t, out, "stiffness")
	assert.InEpsilon(t, 4255534.38869831, stiff["radial_stiffness"].(float64), 1e-6)

	buck := block(t, out, "buckling_tension")
	assert.Equal(t, "linear", buck["approx"])
	assert.Equal(t, 2.0, buck["buckling_mode"])
	assert.InEpsilon(t, 1787.14, buck["buckling_tension"].(float64), 1e-3)

	m := block(t, out, "mass")
	assert.Equal(t, true, m["success"])
	for _, k := range []string{"mass", "mass_rim", "mass_spokes", "mass_rotational", "inertia", "inertia_rim", "inertia_spokes"} {
		assert.Contains(t, m, k)
	}
}

func TestBlocksFailIndependently(t *testing.T) {
	code, out := post(t, newHandler(t), body(t, map[string]any{
		"buckling_tension": map[string]any{"approx": "xyzrandom"},
		"mass":             map[string]any{},
	}))
	require.Equal(t, http.StatusOK, code)

	buck := block(t, out, "buckling_tension")
	assert.Equal(t, false, buck["success"])
	assert.Equal(t, "Unknown approximation: xyzrandom", buck["error"])
	assert.Equal(t, true, block(t, out, "mass")["success"])
	assert.NotContains(t, out, "tension")
}

func TestSingularWheel(t *testing.T) {
	var wheelJSON map[string]any
	require.NoError(t, json.Unmarshal([]byte(wheeltest.WheelJSON), &wheelJSON))
	wheelJSON["spokes"].(map[string]any)["num_cross"] = 0

	b, err := json.Marshal(map[string]any{
		"wheel":       wheelJSON,
		"stiffness":   map[string]any{},
		"tension":     map[string]any{"forces": []any{map[string]any{"location": 0, "f_rad": 1}}},
		"deformation": map[string]any{"forces": []any{map[string]any{"location": 0, "f_rad": 1}}},
	})
	require.NoError(t, err)

	code, out := post(t, newHandler(t), b)
	require.Equal(t, http.StatusOK, code)
	for _, name := range []string{"stiffness", "tension", "deformation"} {
		assert.Equal(t, "Linear algebra error", block(t, out, name)["error"], name)
	}
}

func TestInvalidWheel(t *testing.T) {
	h := newHandler(t)

	code, out := post(t, h, []byte(`{"stiffness": {}}`))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, strings.HasPrefix(out["error"].(string), "Missing or invalid wheel object"))

	var wheelJSON map[string]any
	require.NoError(t, json.Unmarshal([]byte(wheeltest.WheelJSON), &wheelJSON))
	wheelJSON["rim"].(map[string]any)["section_type"] = "box"
	delete(wheelJSON["hub"].(map[string]any), "width_ds")
	b, err := json.Marshal(map[string]any{"wheel": wheelJSON})
	require.NoError(t, err)

	code, out = post(t, h, b)
	assert.Equal(t, http.StatusBadRequest, code)
	msg := out["error"].(string)
	assert.Contains(t, msg, "Invalid rim section type 'box'")
	assert.Contains(t, msg, "hub.width_ds is required")
}

func TestInvalidPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t).Calc(rec, httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBadBlockObject(t *testing.T) {
	_, out := post(t, newHandler(t), body(t, map[string]any{
		"deformation": map[string]any{"forces": "everywhere"},
	}))
	def := block(t, out, "deformation")
	assert.Equal(t, false, def["success"])
	assert.Contains(t, def["error"], "Invalid deformation object")
}

func TestPanicIsContained(t *testing.T) {
	e := NewEvaluator(zaptest.NewLogger(t))
	w := wheeltest.Reference(t, 3, 0)
	b := run(e, "boom", json.RawMessage(`{}`), w, func(*wheel.Wheel, buckling.Input) (buckling.Result, error) {
		panic("boom")
	})
	assert.Equal(t, "Unknown error", b.Err)
	assert.False(t, b.OK())
}

func TestNonFiniteResultFailsOnlyItsBlock(t *testing.T) {
	huge := map[string]any{"location": 0, "f_rad": 1e308}
	code, out := post(t, newHandler(t), body(t, map[string]any{
		"deformation": map[string]any{"forces": []any{huge, huge}, "theta": 0},
		"mass":        map[string]any{},
	}))
	require.Equal(t, http.StatusOK, code)

	def := block(t, out, "deformation")
	assert.Equal(t, false, def["success"])
	assert.Equal(t, "Linear algebra error", def["error"])
	assert.Equal(t, true, block(t, out, "mass")["success"])
}

func TestFiniteCheck(t *testing.T) {
	e := NewEvaluator(zaptest.NewLogger(t))
	w := wheeltest.Reference(t, 3, 0)
	b := run(e, "deformation", json.RawMessage(`{}`), w, func(*wheel.Wheel, deformation.Input) (deformation.Result, error) {
		return deformation.Result{Success: true, Theta: []float64{0}, DefRad: []float64{math.NaN()}}, nil
	})
	assert.Equal(t, "Linear algebra error", b.Err)

	b = run(e, "deformation", json.RawMessage(`{}`), w, func(*wheel.Wheel, deformation.Input) (deformation.Result, error) {
		return deformation.Result{Success: true, Theta: []float64{0}, DefRad: []float64{1e-7}}, nil
	})
	assert.True(t, b.OK())
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEvaluator(nil).Evaluate(ctx, Request{Wheel: json.RawMessage(wheeltest.WheelJSON)})
	assert.ErrorIs(t, err, context.Canceled)
}
