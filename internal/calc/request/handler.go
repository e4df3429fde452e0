package request

import (
	"errors"
	"net/http"

	"Wheelcalc/internal/httputil"
)

type Handler struct {
	Eval    *Evaluator
	MaxBody int64
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.DecodeJSON(w, r, h.MaxBody, &req); err != nil {
		httputil.BadRequest(w, "Invalid request payload")
		return
	}
	res, err := h.Eval.Evaluate(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrWheel) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, "Calculation error")
		return
	}
	httputil.WriteJSONOK(w, res)
}
