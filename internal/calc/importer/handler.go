package importer

import (
	"errors"
	"net/http"

	"Wheelcalc/internal/calc/validate"
	"Wheelcalc/internal/httputil"
)

type Handler struct {
	MaxBody int64
}

func (h *Handler) Wheels(w http.ResponseWriter, r *http.Request) {
	if h.MaxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBody)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "File required")
		return
	}
	defer file.Close()

	res, err := Import(file)
	if err != nil {
		if errors.Is(err, validate.ErrInvalid) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, "Import error")
		return
	}
	httputil.WriteJSONOK(w, res)
}
