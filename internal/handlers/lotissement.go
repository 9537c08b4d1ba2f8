package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/validation"

	"gorm.io/gorm"
)

type LotissementHandler struct{ DB *gorm.DB }

func NewLotissementHandler(db *gorm.DB) *LotissementHandler { return &LotissementHandler{DB: db} }

// List: GET /lotissements
func (h *LotissementHandler) List(w http.ResponseWriter, r *http.Request) {
	var lots []models.Lotissement
	if err := h.DB.Order("id desc").Find(&lots).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_lotissements", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": lots, "total": len(lots)})
}

// Create: POST /lotissements
func (h *LotissementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Nom         string `json:"nom"`
		Ville       string `json:"ville"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nom", input.Nom, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	lot := models.Lotissement{Nom: strings.TrimSpace(input.Nom), Ville: input.Ville, Description: input.Description}
	if err := h.DB.Create(&lot).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "lotissement_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, lot)
}

type IlotHandler struct{ DB *gorm.DB }

func NewIlotHandler(db *gorm.DB) *IlotHandler { return &IlotHandler{DB: db} }

// List: GET /ilots?lotissement_id=...
func (h *IlotHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Order("id desc")
	if v := r.URL.Query().Get("lotissement_id"); v != "" {
		dbq = dbq.Where("lotissement_id = ?", v)
	}
	var ilots []models.Ilot
	if err := dbq.Find(&ilots).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_ilots", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": ilots, "total": len(ilots)})
}

// Create: POST /ilots
func (h *IlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		LotissementID uint   `json:"lotissement_id"`
		Nom           string `json:"nom"`
		Capacite      *int   `json:"capacite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nom", input.Nom, v)
	if input.LotissementID == 0 {
		v["lotissement_id"] = "required"
	}
	if input.Capacite != nil && *input.Capacite < 0 {
		v["capacite"] = "must_be_non_negative"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var lot models.Lotissement
	if err := h.DB.First(&lot, input.LotissementID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "lotissement_not_found", nil)
		return
	}
	ilot := models.Ilot{LotissementID: input.LotissementID, Nom: strings.TrimSpace(input.Nom), Capacite: input.Capacite}
	if err := h.DB.Create(&ilot).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "ilot_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, ilot)
}
