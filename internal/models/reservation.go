package models

import "time"

// Statuts de réservation.
const (
	ReservationActive    = "active"
	ReservationAnnulee   = "annulee"
	ReservationConvertie = "convertie"
)

// ReservationParcelle: blocage temporaire d'une parcelle contre un acompte.
// L'acompte n'est jamais remboursé ni remis à zéro à l'annulation (il est
// conservé comme donnée historique: acompte forfaitaire).
type ReservationParcelle struct {
	ID               uint      `gorm:"primaryKey"`
	Reference        string    `gorm:"size:20;uniqueIndex"`
	ParcelleID       uint      `gorm:"not null;index"`
	Parcelle         Parcelle  `gorm:"foreignKey:ParcelleID"`
	AcquereurID      uint      `gorm:"not null;index"`
	Acquereur        Acquereur `gorm:"foreignKey:AcquereurID"`
	MontantAcompte   int64     `gorm:"not null"` // francs CFA
	ModePaiement     string    // ex: virement, espèces, mobile money
	DateReservation  time.Time `gorm:"not null"`
	ValiditeJours    int       `gorm:"not null"`
	DateExpiration   time.Time `gorm:"not null"`
	Statut           string    `gorm:"not null;default:'active';index"`
	ConvertedVenteID *uint     // renseigné une seule fois, à la conversion en vente
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
