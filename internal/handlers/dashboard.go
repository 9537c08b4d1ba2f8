package handlers

import (
	"net/http"

	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"

	"gorm.io/gorm"
)

type DashboardHandler struct{ DB *gorm.DB }

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Stats: GET /dashboard/stats – parcel counts by status and recent sales.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts := map[string]int64{}
	for _, statut := range []string{models.StatutDisponible, models.StatutReservee, models.StatutVendue} {
		var n int64
		h.DB.Model(&models.Parcelle{}).Where("statut = ?", statut).Count(&n)
		counts[statut] = n
	}
	var reservationsActives int64
	h.DB.Model(&models.ReservationParcelle{}).Where("statut = ?", models.ReservationActive).Count(&reservationsActives)
	var recentes []models.Vente
	h.DB.Preload("Acquereur").Order("created_at desc").Limit(5).Find(&recentes)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"parcelles":            counts,
		"reservations_actives": reservationsActives,
		"ventes_recentes":      recentes,
	})
}
