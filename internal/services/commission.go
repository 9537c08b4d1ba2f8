package services

import (
	"math"
	"sort"
	"time"

	"github.com/diewo77/foncier-app/internal/models"
)

// LigneCommission: one surviving rent payment with its derived commission.
type LigneCommission struct {
	PaiementID      uint      `json:"paiement_id"`
	DatePaiement    time.Time `json:"date_paiement"`
	Montant         int64     `json:"montant"`
	LocataireID     uint      `json:"locataire_id"`
	LocataireNom    string    `json:"locataire_nom"`
	BienID          uint      `json:"bien_id"`
	BienLibelle     string    `json:"bien_libelle"`
	ProprietaireID  uint      `json:"proprietaire_id"`
	ProprietaireNom string    `json:"proprietaire_nom"`
	Pourcentage     float64   `json:"pourcentage"`
	Commission      int64     `json:"commission"`
}

// ResumeProprietaire: per-owner aggregates.
type ResumeProprietaire struct {
	ProprietaireID   uint   `json:"proprietaire_id"`
	Nom              string `json:"nom"`
	TotalLoyers      int64  `json:"total_loyers"`
	TotalCommissions int64  `json:"total_commissions"`
	NombrePaiements  int    `json:"nombre_paiements"`
}

type RapportCommissions struct {
	Lignes           []LigneCommission    `json:"lignes"`
	Proprietaires    []ResumeProprietaire `json:"proprietaires"`
	TotalLoyers      int64                `json:"total_loyers"`
	TotalCommissions int64                `json:"total_commissions"`
}

// ComputeCommissionReport derives the commission report for a date range.
// Pure function over already-fetched rows: identical inputs always yield an
// identical report.
//
// Only payments with statut paye and a paid date inside [debut, fin]
// (inclusive, nil bound = open) survive. Each survivor is joined
// paiement→locataire→bien→propriétaire; any broken link drops the payment.
// Commission = round(montant * pourcentage / 100), rounded half away from
// zero (math.Round); the percentage comes from the owner's management type,
// 0 when absent. Lines are sorted by paid date descending, owners by total
// commission descending, with ids as tie-breakers for determinism.
func ComputeCommissionReport(
	paiements []models.PaiementLoyer,
	proprietaires []models.Proprietaire,
	biens []models.Bien,
	locataires []models.Locataire,
	debut, fin *time.Time,
) RapportCommissions {
	locByID := make(map[uint]models.Locataire, len(locataires))
	for _, l := range locataires {
		locByID[l.ID] = l
	}
	bienByID := make(map[uint]models.Bien, len(biens))
	for _, b := range biens {
		bienByID[b.ID] = b
	}
	propByID := make(map[uint]models.Proprietaire, len(proprietaires))
	for _, p := range proprietaires {
		propByID[p.ID] = p
	}

	rapport := RapportCommissions{Lignes: []LigneCommission{}, Proprietaires: []ResumeProprietaire{}}
	resumes := map[uint]*ResumeProprietaire{}

	for _, pay := range paiements {
		if pay.Statut != models.LoyerPaye || pay.DatePaiement == nil {
			continue
		}
		d := *pay.DatePaiement
		if debut != nil && d.Before(*debut) {
			continue
		}
		if fin != nil && d.After(*fin) {
			continue
		}
		loc, ok := locByID[pay.LocataireID]
		if !ok || loc.BienID == nil {
			continue
		}
		bien, ok := bienByID[*loc.BienID]
		if !ok || bien.ProprietaireID == nil {
			continue
		}
		prop, ok := propByID[*bien.ProprietaireID]
		if !ok {
			continue
		}
		pct := 0.0
		if prop.TypeGestion != nil {
			pct = prop.TypeGestion.Pourcentage
		}
		commission := int64(math.Round(float64(pay.Montant) * pct / 100))

		rapport.Lignes = append(rapport.Lignes, LigneCommission{
			PaiementID:      pay.ID,
			DatePaiement:    d,
			Montant:         pay.Montant,
			LocataireID:     loc.ID,
			LocataireNom:    loc.Nom,
			BienID:          bien.ID,
			BienLibelle:     bien.Libelle,
			ProprietaireID:  prop.ID,
			ProprietaireNom: prop.Nom,
			Pourcentage:     pct,
			Commission:      commission,
		})
		r, ok := resumes[prop.ID]
		if !ok {
			r = &ResumeProprietaire{ProprietaireID: prop.ID, Nom: prop.Nom}
			resumes[prop.ID] = r
		}
		r.TotalLoyers += pay.Montant
		r.TotalCommissions += commission
		r.NombrePaiements++
		rapport.TotalLoyers += pay.Montant
		rapport.TotalCommissions += commission
	}

	sort.Slice(rapport.Lignes, func(i, j int) bool {
		li, lj := rapport.Lignes[i], rapport.Lignes[j]
		if !li.DatePaiement.Equal(lj.DatePaiement) {
			return li.DatePaiement.After(lj.DatePaiement)
		}
		return li.PaiementID > lj.PaiementID
	})
	for _, r := range resumes {
		rapport.Proprietaires = append(rapport.Proprietaires, *r)
	}
	sort.Slice(rapport.Proprietaires, func(i, j int) bool {
		pi, pj := rapport.Proprietaires[i], rapport.Proprietaires[j]
		if pi.TotalCommissions != pj.TotalCommissions {
			return pi.TotalCommissions > pj.TotalCommissions
		}
		return pi.ProprietaireID < pj.ProprietaireID
	})
	return rapport
}
