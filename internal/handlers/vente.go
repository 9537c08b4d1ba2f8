package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/foncier-app/internal/auth"
	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/services"

	"gorm.io/gorm"
)

type VenteHandler struct {
	DB  *gorm.DB
	Svc *services.VenteService
}

func NewVenteHandler(db *gorm.DB, svc *services.VenteService) *VenteHandler {
	return &VenteHandler{DB: db, Svc: svc}
}

// List: GET /ventes?limit=&page=
func (h *VenteHandler) List(w http.ResponseWriter, r *http.Request) {
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
	var total int64
	h.DB.Model(&models.Vente{}).Count(&total)
	var ventes []models.Vente
	if err := h.DB.Preload("Acquereur").Preload("Parcelle").Order("id desc").Limit(limit).Offset(offset).Find(&ventes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_ventes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": ventes, "total": total, "limit": limit, "offset": offset})
}

// Create: POST /ventes – JSON or form
func (h *VenteHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := services.VenteInput{}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		in.UserID = uid
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body struct {
			ParcelleID      uint          `json:"parcelle_id"`
			AcquereurID     uint          `json:"acquereur_id"`
			Acquereur       *acquereurReq `json:"acquereur"`
			PrixTotal       int64         `json:"prix_total"`
			TypePaiement    string        `json:"type_paiement"`
			ModePaiement    string        `json:"mode_paiement"`
			Acompte         int64         `json:"acompte"`
			NombreEcheances int           `json:"nombre_echeances"`
			SoldByID        *uint         `json:"sold_by_id"`
			ReservationID   *uint         `json:"reservation_id"`
			Notes           string        `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		in.ParcelleID = body.ParcelleID
		in.Acquereur = services.BuyerRef{ID: body.AcquereurID}
		if body.Acquereur != nil {
			in.Acquereur.Nouveau = body.Acquereur.toInput()
		}
		in.PrixTotal = body.PrixTotal
		in.TypePaiement = body.TypePaiement
		in.ModePaiement = body.ModePaiement
		in.Acompte = body.Acompte
		in.NombreEcheances = body.NombreEcheances
		in.SoldByID = body.SoldByID
		in.ReservationID = body.ReservationID
		in.Notes = body.Notes
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
		pid, _ := strconv.Atoi(r.FormValue("parcelle_id"))
		in.ParcelleID = uint(pid)
		aid, _ := strconv.Atoi(r.FormValue("acquereur_id"))
		in.Acquereur = services.BuyerRef{ID: uint(aid)}
		if nom := strings.TrimSpace(r.FormValue("acquereur_nom")); nom != "" && aid == 0 {
			in.Acquereur.Nouveau = &services.AcquereurInput{
				Nom:       nom,
				Telephone: r.FormValue("acquereur_telephone"),
				Email:     r.FormValue("acquereur_email"),
				CNINumero: r.FormValue("acquereur_cni"),
			}
		}
		in.PrixTotal, _ = strconv.ParseInt(r.FormValue("prix_total"), 10, 64)
		in.TypePaiement = r.FormValue("type_paiement")
		in.ModePaiement = r.FormValue("mode_paiement")
		// Acompte et échéances non analysables: le service retombe sur 0 et 12.
		in.Acompte, _ = strconv.ParseInt(r.FormValue("acompte"), 10, 64)
		in.NombreEcheances, _ = strconv.Atoi(r.FormValue("nombre_echeances"))
		if v := r.FormValue("reservation_id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				rid := uint(n)
				in.ReservationID = &rid
			}
		}
		in.Notes = r.FormValue("notes")
	}
	if in.ParcelleID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"parcelle_id": "required"})
		return
	}
	if in.SoldByID == nil && in.UserID != 0 {
		uid := in.UserID
		in.SoldByID = &uid
	}
	vente, err := h.Svc.Create(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vente)
}
