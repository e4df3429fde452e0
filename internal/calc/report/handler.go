package report

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

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httputil.DecodeJSON(w, r, h.MaxBody, &input); err != nil {
		httputil.BadRequest(w, "Invalid request payload")
		return
	}
	pdf, err := Generate(r.Context(), h.Eval, input)
	if err != nil {
		if errors.Is(err, request.ErrWheel) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, "Report generation error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"wheel-report.pdf\"")
	w.Write(pdf)
}
