package services

import (
	"strings"
	"time"

	"github.com/diewo77/foncier-app/internal/apperr"
	"github.com/diewo77/foncier-app/internal/models"

	"gorm.io/gorm"
)

// AcquereurInput carries inline new-buyer data submitted with a reservation or sale.
type AcquereurInput struct {
	Nom           string
	Telephone     string
	Email         string
	CNINumero     string
	Adresse       string
	DateNaissance *time.Time
	LieuNaissance string
	Profession    string
}

// BuyerRef is either an existing buyer id or inline new-buyer data.
type BuyerRef struct {
	ID      uint
	Nouveau *AcquereurInput
}

// AcquereurService encapsulates buyer lookup, creation and de-duplication.
type AcquereurService struct{ DB *gorm.DB }

func NewAcquereurService(db *gorm.DB) *AcquereurService { return &AcquereurService{DB: db} }

// CheckDuplicate rejects inline creation when an existing buyer matches on
// name (case-insensitive exact), non-empty phone, or non-empty CNI number
// (case-insensitive). The matched field is reported so the caller can prompt
// to reuse the existing record.
func (s *AcquereurService) CheckDuplicate(tx *gorm.DB, in AcquereurInput) error {
	nom := strings.TrimSpace(in.Nom)
	var existing models.Acquereur
	if err := tx.Where("lower(nom) = ?", strings.ToLower(nom)).First(&existing).Error; err == nil {
		return &apperr.DuplicateBuyerError{Field: "nom", ExistingID: existing.ID}
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	if tel := strings.TrimSpace(in.Telephone); tel != "" {
		if err := tx.Where("telephone = ?", tel).First(&existing).Error; err == nil {
			return &apperr.DuplicateBuyerError{Field: "telephone", ExistingID: existing.ID}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
	}
	if cni := strings.TrimSpace(in.CNINumero); cni != "" {
		if err := tx.Where("lower(cni_numero) = ?", strings.ToLower(cni)).First(&existing).Error; err == nil {
			return &apperr.DuplicateBuyerError{Field: "cni_numero", ExistingID: existing.ID}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
	}
	return nil
}

// Create validates and inserts a new buyer after the duplicate check.
func (s *AcquereurService) Create(tx *gorm.DB, in AcquereurInput) (*models.Acquereur, error) {
	if strings.TrimSpace(in.Nom) == "" {
		return nil, apperr.NewValidation("nom", "required")
	}
	if err := s.CheckDuplicate(tx, in); err != nil {
		return nil, err
	}
	a := models.Acquereur{
		Nom:           strings.TrimSpace(in.Nom),
		Telephone:     strings.TrimSpace(in.Telephone),
		Email:         strings.TrimSpace(in.Email),
		CNINumero:     strings.TrimSpace(in.CNINumero),
		Adresse:       in.Adresse,
		DateNaissance: in.DateNaissance,
		LieuNaissance: in.LieuNaissance,
		Profession:    in.Profession,
	}
	if err := tx.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Resolve returns the buyer referenced by ref, creating it inline if needed.
// Selecting an existing buyer never triggers the duplicate check.
func (s *AcquereurService) Resolve(tx *gorm.DB, ref BuyerRef) (*models.Acquereur, error) {
	if ref.ID != 0 {
		var a models.Acquereur
		if err := tx.First(&a, ref.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, &apperr.NotFoundError{Entity: "acquereur", ID: ref.ID}
			}
			return nil, err
		}
		return &a, nil
	}
	if ref.Nouveau != nil && strings.TrimSpace(ref.Nouveau.Nom) != "" {
		return s.Create(tx, *ref.Nouveau)
	}
	return nil, &apperr.MissingBuyerError{}
}
