package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/services"

	"gorm.io/gorm"
)

type CommissionHandler struct{ DB *gorm.DB }

func NewCommissionHandler(db *gorm.DB) *CommissionHandler { return &CommissionHandler{DB: db} }

// Report: GET /commissions?debut=2026-01-01&fin=2026-01-31
// The five row sets are fetched inside one read transaction so the pure
// computation sees a consistent snapshot, never a partial multi-row write.
func (h *CommissionHandler) Report(w http.ResponseWriter, r *http.Request) {
	var debut, fin *time.Time
	if v := r.URL.Query().Get("debut"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"debut": "invalid_date"})
			return
		}
		debut = &d
	}
	if v := r.URL.Query().Get("fin"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"fin": "invalid_date"})
			return
		}
		fin = &d
	}

	var paiements []models.PaiementLoyer
	var proprietaires []models.Proprietaire
	var biens []models.Bien
	var locataires []models.Locataire
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Find(&paiements).Error; err != nil {
			return err
		}
		if err := tx.Preload("TypeGestion").Find(&proprietaires).Error; err != nil {
			return err
		}
		if err := tx.Find(&biens).Error; err != nil {
			return err
		}
		return tx.Find(&locataires).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_report_data", nil)
		return
	}

	rapport := services.ComputeCommissionReport(paiements, proprietaires, biens, locataires, debut, fin)
	httpx.JSON(w, http.StatusOK, rapport)
}
