// Package selector resolves the θ and spoke selections of result blocks.
package selector

import (
	"bytes"
	"encoding/json"
	"math"

	"Wheelcalc/internal/calc/validate"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultThetaCount = 50
	RangeThetaCount   = 100

	// MaxThetaCount caps the number of evaluation angles in one block.
	MaxThetaCount = 10000
	// maxRangeValue bounds every spokes_range entry; no wheel comes close.
	maxRangeValue = 1 << 16
)

// Floats accepts either a single number or a list of numbers.
type Floats []float64

func (f *Floats) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] != '[' {
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Floats{v}
		return nil
	}
	var vs []float64
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	*f = vs
	return nil
}

// Ints accepts either a single integer or a list of integers.
type Ints []int

func (s *Ints) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] != '[' {
		var v int
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Ints{v}
		return nil
	}
	var vs []int
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	*s = vs
	return nil
}

// Theta returns the evaluation angles. A range is [start, stop, count?] with
// count defaulting to RangeThetaCount; with neither a range nor explicit
// angles, DefaultThetaCount points span [0, 2π].
func Theta(theta Floats, rng []float64) ([]float64, error) {
	switch {
	case rng != nil:
		if len(rng) != 2 && len(rng) != 3 {
			return nil, validate.Errorf("theta_range must have 2 or 3 values, got %d", len(rng))
		}
		count := RangeThetaCount
		if len(rng) == 3 {
			if rng[2] > MaxThetaCount {
				return nil, validate.Errorf("theta_range count must not exceed %d", MaxThetaCount)
			}
			count = int(rng[2])
			if float64(count) != rng[2] || count < 1 {
				return nil, validate.Errorf("theta_range count must be a positive integer")
			}
		}
		for _, v := range rng[:2] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, validate.Errorf("theta_range values must be finite")
			}
		}
		return linspace(rng[0], rng[1], count), nil
	case theta != nil:
		if len(theta) > MaxThetaCount {
			return nil, validate.Errorf("theta must not have more than %d values", MaxThetaCount)
		}
		for _, t := range theta {
			if math.IsNaN(t) || math.IsInf(t, 0) {
				return nil, validate.Errorf("theta values must be finite")
			}
		}
		return append([]float64(nil), theta...), nil
	}
	return linspace(0, 2*math.Pi, DefaultThetaCount), nil
}

func linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// Spokes returns the selected spoke indices for a wheel with n spokes. A
// range is [start, stop, step?] with stop exclusive and step defaulting to 1.
// With no selection every spoke is returned in order.
func Spokes(n int, spokes Ints, rng []float64) ([]int, error) {
	var out []int
	switch {
	case rng != nil:
		if len(rng) != 2 && len(rng) != 3 {
			return nil, validate.Errorf("spokes_range must have 2 or 3 values, got %d", len(rng))
		}
		for _, v := range rng {
			if math.IsNaN(v) || math.Abs(v) > maxRangeValue {
				return nil, validate.Errorf("spokes_range values must be within ±%d", maxRangeValue)
			}
		}
		start, stop, step := int(rng[0]), int(rng[1]), 1
		if len(rng) == 3 {
			step = int(rng[2])
		}
		if step == 0 {
			return nil, validate.Errorf("spokes_range step must not be zero")
		}
		out = []int{}
		for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
			if i < 0 || i >= n {
				return nil, validate.Errorf("Invalid spoke index %d", i)
			}
			out = append(out, i)
		}
		return out, nil
	case spokes != nil:
		out = append([]int{}, spokes...)
	default:
		out = make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	for _, s := range out {
		if s < 0 || s >= n {
			return nil, validate.Errorf("Invalid spoke index %d", s)
		}
	}
	return out, nil
}
