package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/foncier-app/internal/apperr"
	"github.com/diewo77/foncier-app/internal/httpx"
)

// writeServiceError maps the service error taxonomy onto HTTP responses.
// Storage errors fall through as 500 without being rewritten.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
		return
	}
	var de *apperr.DuplicateBuyerError
	if errors.As(err, &de) {
		httpx.JSONError(w, http.StatusConflict, "acquereur_duplicate", map[string]any{"field": de.Field, "existing_id": de.ExistingID})
		return
	}
	var me *apperr.MissingBuyerError
	if errors.As(err, &me) {
		httpx.JSONError(w, http.StatusBadRequest, "acquereur_required", nil)
		return
	}
	var ne *apperr.NotFoundError
	if errors.As(err, &ne) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", map[string]any{"entity": ne.Entity, "id": ne.ID})
		return
	}
	var ce *apperr.ConflictError
	if errors.As(err, &ce) {
		httpx.JSONError(w, http.StatusConflict, "conflict", map[string]any{"entity": ce.Entity, "id": ce.ID, "statut": ce.Actual})
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
}
