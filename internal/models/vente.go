package models

import "time"

// Types de paiement d'une vente.
const (
	PaiementComptant  = "comptant"
	PaiementEchelonne = "echelonne"
)

// Vente: cession définitive d'une parcelle à un acquéreur. Une parcelle a au
// plus une vente ("vendue" étant terminal); l'index unique sur ParcelleID le
// garantit aussi côté base.
type Vente struct {
	ID               uint      `gorm:"primaryKey"`
	Reference        string    `gorm:"size:20;uniqueIndex"`
	ParcelleID       uint      `gorm:"not null;uniqueIndex"`
	Parcelle         Parcelle  `gorm:"foreignKey:ParcelleID"`
	AcquereurID      uint      `gorm:"not null;index"`
	Acquereur        Acquereur `gorm:"foreignKey:AcquereurID"`
	PrixTotal        int64     `gorm:"not null"` // francs CFA
	TypePaiement     string    `gorm:"not null"` // comptant, echelonne
	ModePaiement     string
	Acompte          *int64 // null si comptant
	Mensualite       *int64 // dérivé: ceil((prix_total - acompte) / nombre_echeances)
	NombreEcheances  *int
	SoldByID         *uint
	SoldBy           *User `gorm:"foreignKey:SoldByID"`
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
