// Package request evaluates a calculation request: one wheel and any of the
// tension, deformation, stiffness, buckling and mass blocks. Blocks fail
// independently of each other.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"Wheelcalc/internal/calc/buckling"
	"Wheelcalc/internal/calc/deformation"
	"Wheelcalc/internal/calc/mass"
	"Wheelcalc/internal/calc/stiffness"
	"Wheelcalc/internal/calc/tension"
	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/calc/wheelspec"
	"Wheelcalc/internal/modematrix"
	"Wheelcalc/internal/wheel"

	"go.uber.org/zap"
)

var ErrWheel = errors.New("Missing or invalid wheel object")

const (
	msgLinearAlgebra = "Linear algebra error"
	msgUnknown       = "Unknown error"
)

type Request struct {
	Wheel           json.RawMessage `json:"wheel"`
	Tension         json.RawMessage `json:"tension,omitempty"`
	Deformation     json.RawMessage `json:"deformation,omitempty"`
	Stiffness       json.RawMessage `json:"stiffness,omitempty"`
	BucklingTension json.RawMessage `json:"buckling_tension,omitempty"`
	Mass            json.RawMessage `json:"mass,omitempty"`
}

// Block is the outcome of one result block: the block's result, or a
// failure message.
type Block[T any] struct {
	Result T
	Err    string
}

func (b Block[T]) OK() bool { return b.Err == "" }

func (b Block[T]) MarshalJSON() ([]byte, error) {
	if b.Err != "" {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, b.Err})
	}
	return json.Marshal(b.Result)
}

type Response struct {
	Wheel           json.RawMessage            `json:"wheel,omitempty"`
	Error           string                     `json:"error,omitempty"`
	Tension         *Block[tension.Result]     `json:"tension,omitempty"`
	Deformation     *Block[deformation.Result] `json:"deformation,omitempty"`
	Stiffness       *Block[stiffness.Result]   `json:"stiffness,omitempty"`
	BucklingTension *Block[buckling.Result]    `json:"buckling_tension,omitempty"`
	Mass            *Block[mass.Result]        `json:"mass,omitempty"`
}

type Evaluator struct {
	log *zap.Logger
}

func NewEvaluator(log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{log: log}
}

// ParseWheel decodes and builds the wheel of a request.
func ParseWheel(raw json.RawMessage) (*wheel.Wheel, wheelspec.Wheel, error) {
	var spec wheelspec.Wheel
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, spec, fmt.Errorf("%w: wheel is required", ErrWheel)
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, spec, fmt.Errorf("%w: %v", ErrWheel, err)
	}
	w, err := spec.Build()
	if err != nil {
		return nil, spec, fmt.Errorf("%w: %w", ErrWheel, err)
	}
	return w, spec, nil
}

// Evaluate runs every requested block. The only error is ErrWheel (or the
// context error); block failures are reported inside the response.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	w, spec, err := ParseWheel(req.Wheel)
	if err != nil {
		return nil, err
	}

	resp := &Response{Wheel: req.Wheel}
	if req.Tension != nil {
		resp.Tension = run(e, "tension", req.Tension, w, tension.Calculate)
	}
	if req.Deformation != nil {
		resp.Deformation = run(e, "deformation", req.Deformation, w, deformation.Calculate)
	}
	if req.Stiffness != nil {
		resp.Stiffness = run(e, "stiffness", req.Stiffness, w, stiffness.Calculate)
	}
	if req.BucklingTension != nil {
		resp.BucklingTension = run(e, "buckling_tension", req.BucklingTension, w, buckling.Calculate)
	}
	if req.Mass != nil {
		resp.Mass = run(e, "mass", req.Mass, w, mass.Calculate)
	}

	e.log.Debug("evaluated request",
		zap.String("wheel", spec.Describe()),
		zap.Int("spokes", len(w.Spokes)),
		zap.Duration("took", time.Since(start)))
	return resp, nil
}

func run[In, Out any](e *Evaluator, name string, raw json.RawMessage, w *wheel.Wheel,
	calc func(*wheel.Wheel, In) (Out, error)) (b *Block[Out]) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("block panicked", zap.String("block", name), zap.Any("panic", r), zap.Stack("stack"))
			b = &Block[Out]{Err: msgUnknown}
		}
	}()

	var in In
	if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &in); err != nil {
			return &Block[Out]{Err: fmt.Sprintf("Invalid %s object: %v", name, err)}
		}
	}
	out, err := calc(w, in)
	if err != nil {
		return &Block[Out]{Err: e.message(name, err)}
	}
	if !finite(reflect.ValueOf(out)) {
		e.log.Warn("block result is not finite", zap.String("block", name))
		return &Block[Out]{Err: msgLinearAlgebra}
	}
	return &Block[Out]{Result: out}
}

// finite reports whether every float reachable from v is finite.
func finite(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.Pointer, reflect.Interface:
		return v.IsNil() || finite(v.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !finite(v.Index(i)) {
				return false
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !finite(v.Field(i)) {
				return false
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !finite(iter.Value()) {
				return false
			}
		}
	}
	return true
}

func (e *Evaluator) message(block string, err error) string {
	msg := Message(err)
	if msg == msgUnknown {
		e.log.Error("block failed", zap.String("block", block), zap.Error(err))
	}
	return msg
}

// Message is the client-facing text for a failed calculation: validation
// messages verbatim, singular systems as a linear algebra error, anything
// else as an unknown error.
func Message(err error) string {
	switch {
	case errors.Is(err, modematrix.ErrSingular):
		return msgLinearAlgebra
	case errors.Is(err, validate.ErrInvalid):
		return err.Error()
	}
	return msgUnknown
}
