package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/foncier-app/internal/auth"
	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/services"

	"gorm.io/gorm"
)

type ReservationHandler struct {
	DB  *gorm.DB
	Svc *services.ReservationService
}

func NewReservationHandler(db *gorm.DB, svc *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{DB: db, Svc: svc}
}

type acquereurReq struct {
	Nom           string `json:"nom"`
	Telephone     string `json:"telephone"`
	Email         string `json:"email"`
	CNINumero     string `json:"cni_numero"`
	Adresse       string `json:"adresse"`
	LieuNaissance string `json:"lieu_naissance"`
	Profession    string `json:"profession"`
}

func (a acquereurReq) toInput() *services.AcquereurInput {
	return &services.AcquereurInput{
		Nom:           a.Nom,
		Telephone:     a.Telephone,
		Email:         a.Email,
		CNINumero:     a.CNINumero,
		Adresse:       a.Adresse,
		LieuNaissance: a.LieuNaissance,
		Profession:    a.Profession,
	}
}

// reservationView augments the stored row with the advisory expiry flag so
// callers can display it without re-implementing the predicate.
type reservationView struct {
	models.ReservationParcelle
	Expiree bool `json:"expiree"`
}

// List: GET /reservations?parcelle_id=&statut=
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Acquereur").Order("id desc")
	if v := r.URL.Query().Get("parcelle_id"); v != "" {
		dbq = dbq.Where("parcelle_id = ?", v)
	}
	if v := r.URL.Query().Get("statut"); v != "" {
		dbq = dbq.Where("statut = ?", v)
	}
	var rows []models.ReservationParcelle
	if err := dbq.Find(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_reservations", nil)
		return
	}
	now := time.Now()
	items := make([]reservationView, 0, len(rows))
	for _, row := range rows {
		items = append(items, reservationView{ReservationParcelle: row, Expiree: h.Svc.IsExpired(&row, now)})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /reservations – JSON or form
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := services.ReservationInput{}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		in.UserID = uid
	}
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body struct {
			ParcelleID     uint          `json:"parcelle_id"`
			AcquereurID    uint          `json:"acquereur_id"`
			Acquereur      *acquereurReq `json:"acquereur"`
			MontantAcompte int64         `json:"montant_acompte"`
			ModePaiement   string        `json:"mode_paiement"`
			ValiditeJours  int           `json:"validite_jours"`
			Notes          string        `json:"notes"`
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
		in.MontantAcompte = body.MontantAcompte
		in.ModePaiement = body.ModePaiement
		in.ValiditeJours = body.ValiditeJours
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
		// Tolérance héritée du formulaire: acompte vide vaut 0, une valeur
		// non numérique est refusée.
		if v := strings.TrimSpace(r.FormValue("montant_acompte")); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"montant_acompte": "invalid_number"})
				return
			}
			in.MontantAcompte = n
		}
		// Validité non analysable: le service retombe sur 30 jours.
		if v := strings.TrimSpace(r.FormValue("validite_jours")); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				in.ValiditeJours = n
			}
		}
		in.ModePaiement = r.FormValue("mode_paiement")
		in.Notes = r.FormValue("notes")
	}
	if in.ParcelleID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"parcelle_id": "required"})
		return
	}
	res, err := h.Svc.Create(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

// Cancel: POST /reservations/cancel?id=...
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))
	if id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	res, err := h.Svc.Cancel(uint(id), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
