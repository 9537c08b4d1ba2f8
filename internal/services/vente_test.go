package services

import (
	"errors"
	"testing"

	"github.com/diewo77/foncier-app/internal/apperr"
	"github.com/diewo77/foncier-app/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMensualite(t *testing.T) {
	// Parity cases from the historical installment arithmetic: rounding is
	// always up, the last installment absorbs the difference.
	assert.Equal(t, int64(100_000), Mensualite(1_000_000, 100_000, 9))
	assert.Equal(t, int64(142_858), Mensualite(1_000_000, 0, 7))
	assert.Equal(t, int64(1), Mensualite(12, 0, 12))
	assert.Equal(t, int64(0), Mensualite(1_000_000, 1_000_000, 4))
}

func TestCreateSaleCash(t *testing.T) {
	db := setupServiceTestDB(t)
	lot := seedLotissement(t, db)
	p := seedParcelle(t, db, lot.ID, "V-01")
	svc := NewVenteService(db)

	vente, err := svc.Create(VenteInput{
		ParcelleID:   p.ID,
		Acquereur:    BuyerRef{Nouveau: &AcquereurInput{Nom: "Mamadou Diop"}},
		PrixTotal:    5_000_000,
		TypePaiement: models.PaiementComptant,
		ModePaiement: "virement",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if vente.Acompte != nil || vente.Mensualite != nil || vente.NombreEcheances != nil {
		t.Fatalf("cash sale must not carry installment fields: %+v", vente)
	}
	var p2 models.Parcelle
	_ = db.First(&p2, p.ID).Error
	if p2.Statut != models.StatutVendue {
		t.Fatalf("expected vendue got %s", p2.Statut)
	}
}

func TestCreateSaleInstallment(t *testing.T) {
	db := setupServiceTestDB(t)
	lot := seedLotissement(t, db)
	p := seedParcelle(t, db, lot.ID, "V-02")
	svc := NewVenteService(db)

	vente, err := svc.Create(VenteInput{
		ParcelleID:      p.ID,
		Acquereur:       BuyerRef{Nouveau: &AcquereurInput{Nom: "Awa Ndiaye"}},
		PrixTotal:       1_000_000,
		TypePaiement:    models.PaiementEchelonne,
		Acompte:         100_000,
		NombreEcheances: 9,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	assert.Equal(t, int64(100_000), *vente.Acompte)
	assert.Equal(t, int64(100_000), *vente.Mensualite)
	assert.Equal(t, 9, *vente.NombreEcheances)
}

func TestCreateSaleInstallmentDefaults(t *testing.T) {
	db := setupServiceTestDB(t)
	lot := seedLotissement(t, db)
	p := seedParcelle(t, db, lot.ID, "V-03")
	svc := NewVenteService(db)

	// Missing down payment and installment count fall back to 0 and 12.
	vente, err := svc.Create(VenteInput{
		ParcelleID:   p.ID,
		Acquereur:    BuyerRef{Nouveau: &AcquereurInput{Nom: "Ibrahima Fall"}},
		PrixTotal:    1_200_000,
		TypePaiement: models.PaiementEchelonne,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	assert.Equal(t, int64(0), *vente.Acompte)
	assert.Equal(t, DefaultNombreEcheances, *vente.NombreEcheances)
	assert.Equal(t, int64(100_000), *vente.Mensualite)
}

func TestCreateSaleInvalidInput(t *testing.T) {
	db := setupServiceTestDB(t)
	lot := seedLotissement(t, db)
	p := seedParcelle(t, db, lot.ID, "V-04")
	svc := NewVenteService(db)

	var ve *apperr.ValidationError
	_, err := svc.Create(VenteInput{ParcelleID: p.ID, Acquereur: BuyerRef{Nouveau: &AcquereurInput{Nom: "Z"}}, PrixTotal: 0, TypePaiement: models.PaiementComptant})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for zero price got %v", err)
	}
	_, err = svc.Create(VenteInput{ParcelleID: p.ID, Acquereur: BuyerRef{Nouveau: &AcquereurInput{Nom: "Z"}}, PrixTotal: 100, TypePaiement: "troc"})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for bad payment type got %v", err)
	}
	// Nothing persisted, parcel untouched.
	var p2 models.Parcelle
	_ = db.First(&p2, p.ID).Error
	if p2.Statut != models.StatutDisponible {
		t.Fatalf("parcelle mutated on failed sale: %s", p2.Statut)
	}
}

func TestSaleFromReservationRoundTrip(t *testing.T) {
	db := setupServiceTestDB(t)
	lot := seedLotissement(t, db)
	p := seedParcelle(t, db, lot.ID, "V-05")
	resSvc := NewReservationService(db)
	venteSvc := NewVenteService(db)

	res, err := resSvc.Create(ReservationInput{
		ParcelleID:     p.ID,
		Acquereur:      BuyerRef{Nouveau: &AcquereurInput{Nom: "Cheikh Ba", Telephone: "770000020"}},
		MontantAcompte: 500_000,
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	vente, err := venteSvc.Create(VenteInput{
		ParcelleID:    p.ID,
		Acquereur:     BuyerRef{ID: res.AcquereurID},
		PrixTotal:     5_000_000,
		TypePaiement:  models.PaiementComptant,
		ReservationID: &res.ID,
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	var count int64
	db.Model(&models.Vente{}).Where("parcelle_id = ?", p.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one vente got %d", count)
	}
	var res2 models.ReservationParcelle
	_ = db.First(&res2, res.ID).Error
	if res2.Statut != models.ReservationConvertie {
		t.Fatalf("expected convertie got %s", res2.Statut)
	}
	if res2.ConvertedVenteID == nil || *res2.ConvertedVenteID != vente.ID {
		t.Fatalf("converted_vente_id not set to %d: %+v", vente.ID, res2.ConvertedVenteID)
	}
	var p2 models.Parcelle
	_ = db.First(&p2, p.ID).Error
	if p2.Statut != models.StatutVendue {
		t.Fatalf("expected vendue got %s", p2.Statut)
	}
}

func TestSellSoldParcelleConflicts(t *testing.T) {
	db := setupServiceTestDB(t)
	lot := seedLotissement(t, db)
	p := seedParcelle(t, db, lot.ID, "V-06")
	svc := NewVenteService(db)

	if _, err := svc.Create(VenteInput{ParcelleID: p.ID, Acquereur: BuyerRef{Nouveau: &AcquereurInput{Nom: "A"}}, PrixTotal: 100, TypePaiement: models.PaiementComptant}); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	_, err := svc.Create(VenteInput{ParcelleID: p.ID, Acquereur: BuyerRef{Nouveau: &AcquereurInput{Nom: "B"}}, PrixTotal: 100, TypePaiement: models.PaiementComptant})
	var ce *apperr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError got %v", err)
	}
}

func TestSaleReservationParcelleMismatch(t *testing.T) {
	db := setupServiceTestDB(t)
	lot := seedLotissement(t, db)
	p1 := seedParcelle(t, db, lot.ID, "V-07")
	p2 := seedParcelle(t, db, lot.ID, "V-08")
	resSvc := NewReservationService(db)
	venteSvc := NewVenteService(db)

	res, err := resSvc.Create(ReservationInput{ParcelleID: p1.ID, Acquereur: BuyerRef{Nouveau: &AcquereurInput{Nom: "C"}}})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	_, err = venteSvc.Create(VenteInput{
		ParcelleID:    p2.ID,
		Acquereur:     BuyerRef{ID: res.AcquereurID},
		PrixTotal:     100,
		TypePaiement:  models.PaiementComptant,
		ReservationID: &res.ID,
	})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError got %v", err)
	}
	// The failed transaction must also roll back the parcel transition.
	var reloaded models.Parcelle
	_ = db.First(&reloaded, p2.ID).Error
	if reloaded.Statut != models.StatutDisponible {
		t.Fatalf("expected rollback to disponible got %s", reloaded.Statut)
	}
}
