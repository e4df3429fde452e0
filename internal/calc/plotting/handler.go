package plotting

import (
	"errors"
	"net/http"

	"Wheelcalc/internal/calc/request"
	"Wheelcalc/internal/httputil"
)

type Handler struct {
	Eval    *request.Evaluator
	MaxBody int64
}

// Deformation expects {wheel, deformation} and answers with a PNG.
func (h *Handler) Deformation(w http.ResponseWriter, r *http.Request) {
	var req request.Request
	if err := httputil.DecodeJSON(w, r, h.MaxBody, &req); err != nil {
		httputil.BadRequest(w, "Invalid request payload")
		return
	}
	if req.Deformation == nil {
		httputil.BadRequest(w, "Missing deformation object")
		return
	}
	res, err := h.Eval.Evaluate(r.Context(), request.Request{Wheel: req.Wheel, Deformation: req.Deformation})
	if err != nil {
		if errors.Is(err, request.ErrWheel) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, "Calculation error")
		return
	}
	if !res.Deformation.OK() {
		httputil.BadRequest(w, res.Deformation.Err)
		return
	}
	img, err := Deformation(res.Deformation.Result)
	if err != nil {
		httputil.InternalServerError(w, "Plot generation error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}
