package controllers

import (
	"net/http"
	"strings"

	"github.com/shahinarahman616-del/HealthMate/api/responses"
	"github.com/shahinarahman616-del/HealthMate/internal/doctors"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
)

// DoctorsSearch returns the curated doctor directory for a specialization.
func DoctorsSearch(svc doctors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "doctor service unavailable"))
			return
		}

		specialization := strings.TrimSpace(r.URL.Query().Get("specialization"))
		location := strings.TrimSpace(r.URL.Query().Get("location"))

		result, err := svc.Search(specialization, location)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"doctors": result})
	}
}
