package services

import (
	"testing"
	"time"

	"github.com/diewo77/foncier-app/internal/models"

	"github.com/stretchr/testify/assert"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func uintPtr(v uint) *uint { return &v }

// Single owner at 10% with one paid 500 000 rent payment.
func commissionFixture() ([]models.PaiementLoyer, []models.Proprietaire, []models.Bien, []models.Locataire) {
	tg := models.TypeGestion{ID: 1, Nom: "Gestion complète", Pourcentage: 10}
	proprietaires := []models.Proprietaire{{ID: 1, Nom: "Oumar Sy", TypeGestionID: &tg.ID, TypeGestion: &tg}}
	biens := []models.Bien{{ID: 1, Libelle: "Villa Ngor", ProprietaireID: uintPtr(1)}}
	locataires := []models.Locataire{{ID: 1, Nom: "Locataire A", BienID: uintPtr(1)}}
	paiements := []models.PaiementLoyer{
		{ID: 1, LocataireID: 1, Montant: 500_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 8, 10)},
	}
	return paiements, proprietaires, biens, locataires
}

func TestCommissionSingleOwner(t *testing.T) {
	paiements, proprietaires, biens, locataires := commissionFixture()
	r := ComputeCommissionReport(paiements, proprietaires, biens, locataires, nil, nil)

	assert.Len(t, r.Lignes, 1)
	assert.Equal(t, int64(50_000), r.Lignes[0].Commission)
	assert.Equal(t, 10.0, r.Lignes[0].Pourcentage)
	assert.Len(t, r.Proprietaires, 1)
	assert.Equal(t, int64(50_000), r.Proprietaires[0].TotalCommissions)
	assert.Equal(t, int64(500_000), r.Proprietaires[0].TotalLoyers)
	assert.Equal(t, 1, r.Proprietaires[0].NombrePaiements)
	assert.Equal(t, int64(50_000), r.TotalCommissions)
	assert.Equal(t, int64(500_000), r.TotalLoyers)
}

func TestCommissionDateBoundsInclusive(t *testing.T) {
	paiements, proprietaires, biens, locataires := commissionFixture()
	paiements = append(paiements,
		models.PaiementLoyer{ID: 2, LocataireID: 1, Montant: 100_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 7, 31)},
		models.PaiementLoyer{ID: 3, LocataireID: 1, Montant: 200_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 8, 31)},
	)
	debut := datePtr(2026, 8, 1)
	fin := datePtr(2026, 8, 31)
	r := ComputeCommissionReport(paiements, proprietaires, biens, locataires, debut, fin)

	// 31 July is out; 10 and 31 August are in (bounds inclusive).
	assert.Len(t, r.Lignes, 2)
	assert.Equal(t, int64(700_000), r.TotalLoyers)
	assert.Equal(t, int64(70_000), r.TotalCommissions)
}

func TestCommissionSkipsNonPaidAndBrokenLinks(t *testing.T) {
	paiements, proprietaires, biens, locataires := commissionFixture()
	paiements = append(paiements,
		// Not paid yet.
		models.PaiementLoyer{ID: 2, LocataireID: 1, Montant: 100_000, Statut: models.LoyerEnAttente, DatePaiement: datePtr(2026, 8, 11)},
		// Unknown tenant.
		models.PaiementLoyer{ID: 3, LocataireID: 99, Montant: 100_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 8, 12)},
	)
	// Tenant without a property, property without an owner.
	locataires = append(locataires, models.Locataire{ID: 2, Nom: "Sans bien"})
	biens = append(biens, models.Bien{ID: 2, Libelle: "Bien orphelin"})
	paiements = append(paiements,
		models.PaiementLoyer{ID: 4, LocataireID: 2, Montant: 100_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 8, 13)},
	)

	r := ComputeCommissionReport(paiements, proprietaires, biens, locataires, nil, nil)
	assert.Len(t, r.Lignes, 1)
	assert.Equal(t, int64(500_000), r.TotalLoyers)
}

func TestCommissionOwnerWithoutTypeGestion(t *testing.T) {
	paiements, proprietaires, biens, locataires := commissionFixture()
	proprietaires[0].TypeGestion = nil
	proprietaires[0].TypeGestionID = nil

	r := ComputeCommissionReport(paiements, proprietaires, biens, locataires, nil, nil)
	assert.Len(t, r.Lignes, 1)
	assert.Equal(t, 0.0, r.Lignes[0].Pourcentage)
	assert.Equal(t, int64(0), r.Lignes[0].Commission)
	assert.Equal(t, int64(500_000), r.TotalLoyers)
	assert.Equal(t, int64(0), r.TotalCommissions)
}

func TestCommissionRounding(t *testing.T) {
	paiements, proprietaires, biens, locataires := commissionFixture()
	// 7.5% of 333: 24.975 rounds half away from zero to 25.
	proprietaires[0].TypeGestion.Pourcentage = 7.5
	paiements[0].Montant = 333

	r := ComputeCommissionReport(paiements, proprietaires, biens, locataires, nil, nil)
	assert.Equal(t, int64(25), r.Lignes[0].Commission)
}

func TestCommissionSorting(t *testing.T) {
	tg10 := models.TypeGestion{ID: 1, Nom: "Complète", Pourcentage: 10}
	tg5 := models.TypeGestion{ID: 2, Nom: "Simple", Pourcentage: 5}
	proprietaires := []models.Proprietaire{
		{ID: 1, Nom: "Petit", TypeGestionID: &tg5.ID, TypeGestion: &tg5},
		{ID: 2, Nom: "Grand", TypeGestionID: &tg10.ID, TypeGestion: &tg10},
	}
	biens := []models.Bien{
		{ID: 1, Libelle: "Studio", ProprietaireID: uintPtr(1)},
		{ID: 2, Libelle: "Immeuble", ProprietaireID: uintPtr(2)},
	}
	locataires := []models.Locataire{
		{ID: 1, Nom: "L1", BienID: uintPtr(1)},
		{ID: 2, Nom: "L2", BienID: uintPtr(2)},
	}
	paiements := []models.PaiementLoyer{
		{ID: 1, LocataireID: 1, Montant: 100_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 8, 1)},
		{ID: 2, LocataireID: 2, Montant: 400_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 8, 15)},
		{ID: 3, LocataireID: 1, Montant: 100_000, Statut: models.LoyerPaye, DatePaiement: datePtr(2026, 8, 20)},
	}

	r := ComputeCommissionReport(paiements, proprietaires, biens, locataires, nil, nil)
	// Lines newest first.
	assert.Equal(t, uint(3), r.Lignes[0].PaiementID)
	assert.Equal(t, uint(2), r.Lignes[1].PaiementID)
	assert.Equal(t, uint(1), r.Lignes[2].PaiementID)
	// Owners by total commission descending: Grand (40 000) before Petit (10 000).
	assert.Equal(t, "Grand", r.Proprietaires[0].Nom)
	assert.Equal(t, int64(40_000), r.Proprietaires[0].TotalCommissions)
	assert.Equal(t, "Petit", r.Proprietaires[1].Nom)
	assert.Equal(t, int64(10_000), r.Proprietaires[1].TotalCommissions)
}

func TestCommissionDeterministic(t *testing.T) {
	paiements, proprietaires, biens, locataires := commissionFixture()
	debut := datePtr(2026, 8, 1)
	fin := datePtr(2026, 8, 31)
	r1 := ComputeCommissionReport(paiements, proprietaires, biens, locataires, debut, fin)
	r2 := ComputeCommissionReport(paiements, proprietaires, biens, locataires, debut, fin)
	assert.Equal(t, r1, r2)
}
