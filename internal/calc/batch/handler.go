package batch

import (
	"errors"
	"net/http"

	"Wheelcalc/internal/calc/request"
	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/httputil"
)

type Handler struct {
	Eval    *request.Evaluator
	Workers int
	MaxBody int64
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httputil.DecodeJSON(w, r, h.MaxBody, &input); err != nil {
		httputil.BadRequest(w, "Invalid request payload")
		return
	}
	res, err := Calculate(r.Context(), h.Eval, input, h.Workers)
	if err != nil {
		if errors.Is(err, validate.ErrInvalid) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, "Calculation error")
		return
	}
	httputil.WriteJSONOK(w, res)
}
