package services

import (
	"strings"

	"github.com/diewo77/foncier-app/internal/apperr"
	"github.com/diewo77/foncier-app/internal/models"
	"github.com/diewo77/foncier-app/internal/validation"

	"gorm.io/gorm"
)

// ParcelleService is the authority for parcel edits and status transitions.
// Every transition runs as a single conditional UPDATE so two concurrent
// actors cannot both move the same parcel (no read-then-write window).
type ParcelleService struct{ DB *gorm.DB }

func NewParcelleService(db *gorm.DB) *ParcelleService { return &ParcelleService{DB: db} }

// CheckNumeroUnique enforces case-insensitive plot number uniqueness within a
// lotissement among non-deleted parcels, excluding the parcel being edited.
func (s *ParcelleService) CheckNumeroUnique(tx *gorm.DB, lotissementID uint, numero string, excludeID uint) error {
	n := strings.ToLower(strings.TrimSpace(numero))
	if n == "" {
		return apperr.NewValidation("numero", "required")
	}
	var count int64
	q := tx.Model(&models.Parcelle{}).
		Where("lotissement_id = ? AND lower(numero) = ?", lotissementID, n)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.NewValidation("numero", "already_used")
	}
	return nil
}

// CheckCapacite enforces the ilot capacity: non-deleted parcels referencing
// the ilot, excluding the parcel being edited, must stay within Capacite
// after the assignment. Nil capacity means unlimited.
func (s *ParcelleService) CheckCapacite(tx *gorm.DB, ilotID uint, excludeID uint) error {
	var ilot models.Ilot
	if err := tx.First(&ilot, ilotID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &apperr.NotFoundError{Entity: "ilot", ID: ilotID}
		}
		return err
	}
	if ilot.Capacite == nil {
		return nil
	}
	var count int64
	q := tx.Model(&models.Parcelle{}).Where("ilot_id = ?", ilotID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count+1 > int64(*ilot.Capacite) {
		return apperr.NewValidation("ilot_id", "capacity_exceeded")
	}
	return nil
}

// Transition moves a parcel from one status to another with a guarded UPDATE
// (`WHERE id = ? AND statut = ?`). Zero rows affected means the parcel either
// no longer exists or is not in the expected status: the latter is surfaced
// as ConflictError so callers can distinguish a lost race from bad input.
func (s *ParcelleService) Transition(tx *gorm.DB, parcelleID uint, from, to string) error {
	res := tx.Model(&models.Parcelle{}).
		Where("id = ? AND statut = ?", parcelleID, from).
		Update("statut", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var p models.Parcelle
		if err := tx.First(&p, parcelleID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperr.NotFoundError{Entity: "parcelle", ID: parcelleID}
			}
			return err
		}
		return &apperr.ConflictError{Entity: "parcelle", ID: parcelleID, Expected: from, Actual: p.Statut}
	}
	return nil
}

// ParcelleInput for create/update.
type ParcelleInput struct {
	LotissementID uint
	IlotID        *uint
	Numero        string
	Superficie    float64
	Prix          int64
	AssignedToID  *uint
	Notes         string
}

// Create inserts a new parcel in status disponible after running both guards.
func (s *ParcelleService) Create(in ParcelleInput) (*models.Parcelle, error) {
	v := validation.Violations{}
	validation.Required("numero", in.Numero, v)
	validation.PositiveFloat("superficie", in.Superficie, v)
	validation.PositiveInt("prix", in.Prix, v)
	if in.LotissementID == 0 {
		v["lotissement_id"] = "required"
	}
	if !v.Empty() {
		return nil, &apperr.ValidationError{Violations: v}
	}
	var p models.Parcelle
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lot models.Lotissement
		if err := tx.First(&lot, in.LotissementID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperr.NotFoundError{Entity: "lotissement", ID: in.LotissementID}
			}
			return err
		}
		if err := s.CheckNumeroUnique(tx, in.LotissementID, in.Numero, 0); err != nil {
			return err
		}
		if in.IlotID != nil {
			if err := s.CheckCapacite(tx, *in.IlotID, 0); err != nil {
				return err
			}
		}
		p = models.Parcelle{
			LotissementID: in.LotissementID,
			IlotID:        in.IlotID,
			Numero:        strings.TrimSpace(in.Numero),
			Superficie:    in.Superficie,
			Prix:          in.Prix,
			Statut:        models.StatutDisponible,
			AssignedToID:  in.AssignedToID,
			Notes:         in.Notes,
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update edits price/area/notes/ilot/assignee under the same guards. Status is
// never edited here: only reservation and sale operations move it, and a sold
// parcel cannot change ilot at all.
func (s *ParcelleService) Update(id uint, in ParcelleInput) (*models.Parcelle, error) {
	var p models.Parcelle
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperr.NotFoundError{Entity: "parcelle", ID: id}
			}
			return err
		}
		if in.Numero != "" && !strings.EqualFold(strings.TrimSpace(in.Numero), p.Numero) {
			if err := s.CheckNumeroUnique(tx, p.LotissementID, in.Numero, p.ID); err != nil {
				return err
			}
			p.Numero = strings.TrimSpace(in.Numero)
		}
		if in.Superficie != 0 {
			if in.Superficie < 0 {
				return apperr.NewValidation("superficie", "must_be_positive")
			}
			p.Superficie = in.Superficie
		}
		if in.Prix != 0 {
			if in.Prix < 0 {
				return apperr.NewValidation("prix", "must_be_positive")
			}
			p.Prix = in.Prix
		}
		if in.IlotID != nil && (p.IlotID == nil || *in.IlotID != *p.IlotID) {
			if p.Statut == models.StatutVendue {
				return &apperr.ConflictError{Entity: "parcelle", ID: p.ID, Expected: models.StatutDisponible, Actual: p.Statut}
			}
			if err := s.CheckCapacite(tx, *in.IlotID, p.ID); err != nil {
				return err
			}
			p.IlotID = in.IlotID
		}
		if in.AssignedToID != nil {
			p.AssignedToID = in.AssignedToID
		}
		if in.Notes != "" {
			p.Notes = in.Notes
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete soft-deletes a parcel. A sold parcel is immutable and cannot be deleted.
func (s *ParcelleService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Parcelle
		if err := tx.First(&p, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperr.NotFoundError{Entity: "parcelle", ID: id}
			}
			return err
		}
		if p.Statut == models.StatutVendue {
			return &apperr.ConflictError{Entity: "parcelle", ID: p.ID, Expected: models.StatutDisponible, Actual: p.Statut}
		}
		return tx.Delete(&p).Error
	})
}
