package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/foncier-app/internal/apperr"
	"github.com/diewo77/foncier-app/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultValiditeJours applies when the requested validity is missing or non-positive.
const DefaultValiditeJours = 30

// ReservationInput for CreateReservation.
type ReservationInput struct {
	ParcelleID     uint
	Acquereur      BuyerRef
	MontantAcompte int64
	ModePaiement   string
	ValiditeJours  int
	Notes          string
	UserID         uint // acting manager, for the audit trail
}

// ReservationService owns the reservation lifecycle. Parcel status changes go
// through ParcelleService.Transition inside the same transaction, so a parcel
// can never end up reserved without its reservation row (and vice versa).
type ReservationService struct {
	DB         *gorm.DB
	Acquereurs *AcquereurService
	Parcelles  *ParcelleService
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db, Acquereurs: NewAcquereurService(db), Parcelles: NewParcelleService(db)}
}

// Create reserves a parcel. The disponible→reservee conditional transition
// also enforces "at most one active reservation per parcel": a second reserve
// attempt finds the parcel already reservee and gets ConflictError.
func (s *ReservationService) Create(in ReservationInput) (*models.ReservationParcelle, error) {
	if in.MontantAcompte < 0 {
		return nil, apperr.NewValidation("montant_acompte", "must_be_non_negative")
	}
	validite := in.ValiditeJours
	if validite < 1 {
		validite = DefaultValiditeJours
	}
	var res models.ReservationParcelle
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		buyer, err := s.Acquereurs.Resolve(tx, in.Acquereur)
		if err != nil {
			return err
		}
		if err := s.Parcelles.Transition(tx, in.ParcelleID, models.StatutDisponible, models.StatutReservee); err != nil {
			return err
		}
		now := time.Now()
		res = models.ReservationParcelle{
			Reference:       newReference("RES"),
			ParcelleID:      in.ParcelleID,
			AcquereurID:     buyer.ID,
			MontantAcompte:  in.MontantAcompte,
			ModePaiement:    in.ModePaiement,
			DateReservation: now,
			ValiditeJours:   validite,
			DateExpiration:  now.AddDate(0, 0, validite),
			Statut:          models.ReservationActive,
			Notes:           in.Notes,
		}
		if err := tx.Create(&res).Error; err != nil {
			return err
		}
		audit := models.AuditLog{UserID: in.UserID, EntityType: "ReservationParcelle", EntityID: res.ID, Action: "reserver", Details: fmt.Sprintf("parcelle=%d", in.ParcelleID)}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Cancel sets the reservation to annulee and frees the parcel. The deposit is
// deliberately left untouched: it is forfeited and kept as historical data.
func (s *ReservationService) Cancel(id uint, userID uint) (*models.ReservationParcelle, error) {
	var res models.ReservationParcelle
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&res, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperr.NotFoundError{Entity: "reservation", ID: id}
			}
			return err
		}
		if res.Statut != models.ReservationActive {
			return &apperr.ConflictError{Entity: "reservation", ID: res.ID, Expected: models.ReservationActive, Actual: res.Statut}
		}
		if err := s.Parcelles.Transition(tx, res.ParcelleID, models.StatutReservee, models.StatutDisponible); err != nil {
			return err
		}
		res.Statut = models.ReservationAnnulee
		if err := tx.Save(&res).Error; err != nil {
			return err
		}
		audit := models.AuditLog{UserID: userID, EntityType: "ReservationParcelle", EntityID: res.ID, Action: "annuler"}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// IsExpired is a pure predicate: a reservation is expired when now is past its
// expiry date. Advisory only; an expired reservation is never auto-released.
func (s *ReservationService) IsExpired(res *models.ReservationParcelle, now time.Time) bool {
	return now.After(res.DateExpiration)
}

// convertToSale marks an active reservation as converted and records the sale
// id, exactly once. Called by VenteService within the sale transaction.
func (s *ReservationService) convertToSale(tx *gorm.DB, reservationID, venteID uint) error {
	var res models.ReservationParcelle
	if err := tx.First(&res, reservationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &apperr.NotFoundError{Entity: "reservation", ID: reservationID}
		}
		return err
	}
	if res.Statut != models.ReservationActive {
		return &apperr.ConflictError{Entity: "reservation", ID: res.ID, Expected: models.ReservationActive, Actual: res.Statut}
	}
	res.Statut = models.ReservationConvertie
	res.ConvertedVenteID = &venteID
	return tx.Save(&res).Error
}

// newReference builds a short human-readable code like RES-1A2B3C4D.
func newReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:8]
}
