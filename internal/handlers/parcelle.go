package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/services"

	"gorm.io/gorm"
)

type ParcelleHandler struct {
	DB  *gorm.DB
	Svc *services.ParcelleService
}

func NewParcelleHandler(db *gorm.DB, svc *services.ParcelleService) *ParcelleHandler {
	return &ParcelleHandler{DB: db, Svc: svc}
}

// List: GET /parcelles?lotissement_id=&statut=&q=&limit=&page=
func (h *ParcelleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	dbq := h.DB.Model(&models.Parcelle{})
	if v := r.URL.Query().Get("lotissement_id"); v != "" {
		dbq = dbq.Where("lotissement_id = ?", v)
	}
	if v := r.URL.Query().Get("statut"); v != "" {
		dbq = dbq.Where("statut = ?", v)
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		safe := regexp.MustCompile(`[^a-zA-Z0-9 \-_]`).ReplaceAllString(q, "")
		like := "%" + strings.ToLower(safe) + "%"
		dbq = dbq.Where("lower(numero) LIKE ?", like)
	}
	var total int64
	dbq.Count(&total)
	var parcelles []models.Parcelle
	if err := dbq.Preload("Ilot").Order("id desc").Limit(limit).Offset(offset).Find(&parcelles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_parcelles", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": parcelles, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /parcelles
func (h *ParcelleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		LotissementID uint    `json:"lotissement_id"`
		IlotID        *uint   `json:"ilot_id"`
		Numero        string  `json:"numero"`
		Superficie    float64 `json:"superficie"`
		Prix          int64   `json:"prix"`
		AssignedToID  *uint   `json:"assigned_to_id"`
		Notes         string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	p, err := h.Svc.Create(services.ParcelleInput{
		LotissementID: input.LotissementID,
		IlotID:        input.IlotID,
		Numero:        input.Numero,
		Superficie:    input.Superficie,
		Prix:          input.Prix,
		AssignedToID:  input.AssignedToID,
		Notes:         input.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update: POST /parcelles/update?id=...
func (h *ParcelleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))
	if id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		IlotID       *uint   `json:"ilot_id"`
		Numero       string  `json:"numero"`
		Superficie   float64 `json:"superficie"`
		Prix         int64   `json:"prix"`
		AssignedToID *uint   `json:"assigned_to_id"`
		Notes        string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	p, err := h.Svc.Update(uint(id), services.ParcelleInput{
		IlotID:       input.IlotID,
		Numero:       input.Numero,
		Superficie:   input.Superficie,
		Prix:         input.Prix,
		AssignedToID: input.AssignedToID,
		Notes:        input.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete: POST /parcelles/delete?id=... (soft delete)
func (h *ParcelleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))
	if id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Delete(uint(id)); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
