package services

import (
	"fmt"

	"github.com/diewo77/foncier-app/internal/apperr"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/validation"

	"gorm.io/gorm"
)

// DefaultNombreEcheances applies when the requested installment count is
// missing or non-positive.
const DefaultNombreEcheances = 12

// VenteInput for CreateSale.
type VenteInput struct {
	ParcelleID      uint
	Acquereur       BuyerRef
	PrixTotal       int64
	TypePaiement    string
	ModePaiement    string
	Acompte         int64
	NombreEcheances int
	SoldByID        *uint
	ReservationID   *uint
	Notes           string
	UserID          uint
}

type VenteService struct {
	DB           *gorm.DB
	Acquereurs   *AcquereurService
	Parcelles    *ParcelleService
	Reservations *ReservationService
}

func NewVenteService(db *gorm.DB) *VenteService {
	return &VenteService{
		DB:           db,
		Acquereurs:   NewAcquereurService(db),
		Parcelles:    NewParcelleService(db),
		Reservations: NewReservationService(db),
	}
}

// Mensualite computes the monthly installment: ceil((total - acompte) / n).
// Rounding is always up, so the last installment may be smaller than the
// others. Amounts are whole francs.
func Mensualite(prixTotal, acompte int64, nombreEcheances int) int64 {
	reste := prixTotal - acompte
	n := int64(nombreEcheances)
	return (reste + n - 1) / n
}

// Create records a sale, moves the parcel to vendue (from disponible or
// reservee, conditionally on the observed status) and converts the prior
// reservation when one is referenced — all in a single transaction.
func (s *VenteService) Create(in VenteInput) (*models.Vente, error) {
	v := validation.Violations{}
	validation.PositiveInt("prix_total", in.PrixTotal, v)
	validation.OneOf("type_paiement", in.TypePaiement, []string{models.PaiementComptant, models.PaiementEchelonne}, v)
	if !v.Empty() {
		return nil, &apperr.ValidationError{Violations: v}
	}

	var acompte *int64
	var mensualite *int64
	var echeances *int
	if in.TypePaiement == models.PaiementEchelonne {
		a := in.Acompte
		if a < 0 {
			a = 0
		}
		if a > in.PrixTotal {
			return nil, apperr.NewValidation("acompte", "out_of_range")
		}
		n := in.NombreEcheances
		if n < 1 {
			n = DefaultNombreEcheances
		}
		m := Mensualite(in.PrixTotal, a, n)
		acompte, mensualite, echeances = &a, &m, &n
	}

	var vente models.Vente
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		buyer, err := s.Acquereurs.Resolve(tx, in.Acquereur)
		if err != nil {
			return err
		}
		var p models.Parcelle
		if err := tx.First(&p, in.ParcelleID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperr.NotFoundError{Entity: "parcelle", ID: in.ParcelleID}
			}
			return err
		}
		if p.Statut == models.StatutVendue {
			return &apperr.ConflictError{Entity: "parcelle", ID: p.ID, Expected: models.StatutDisponible, Actual: p.Statut}
		}
		// Conditional on the status we just observed; a concurrent actor who
		// moved the parcel in between makes this a zero-row update → conflict.
		if err := s.Parcelles.Transition(tx, p.ID, p.Statut, models.StatutVendue); err != nil {
			return err
		}
		vente = models.Vente{
			Reference:       newReference("VTE"),
			ParcelleID:      p.ID,
			AcquereurID:     buyer.ID,
			PrixTotal:       in.PrixTotal,
			TypePaiement:    in.TypePaiement,
			ModePaiement:    in.ModePaiement,
			Acompte:         acompte,
			Mensualite:      mensualite,
			NombreEcheances: echeances,
			SoldByID:        in.SoldByID,
			Notes:           in.Notes,
		}
		if err := tx.Create(&vente).Error; err != nil {
			return err
		}
		if in.ReservationID != nil {
			var res models.ReservationParcelle
			if err := tx.First(&res, *in.ReservationID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return &apperr.NotFoundError{Entity: "reservation", ID: *in.ReservationID}
				}
				return err
			}
			if res.ParcelleID != p.ID {
				return apperr.NewValidation("reservation_id", "parcelle_mismatch")
			}
			if err := s.Reservations.convertToSale(tx, res.ID, vente.ID); err != nil {
				return err
			}
		}
		audit := models.AuditLog{UserID: in.UserID, EntityType: "Vente", EntityID: vente.ID, Action: "vendre", Details: fmt.Sprintf("parcelle=%d", p.ID)}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &vente, nil
}
