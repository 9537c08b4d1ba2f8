package models

import "time"

// Côté gestion locative, lu par le moteur de commissions. Ces entités sont
// créées et modifiées par un autre service; ici on ne fait que les lire.

// TypeGestion: accord de commission en pourcentage avec un propriétaire.
type TypeGestion struct {
	ID          uint    `gorm:"primaryKey"`
	Nom         string  `gorm:"not null;unique"`
	Pourcentage float64 `gorm:"not null"` // 0..100
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Proprietaire struct {
	ID            uint   `gorm:"primaryKey"`
	Nom           string `gorm:"not null;index"`
	Telephone     string
	Email         string
	TypeGestionID *uint
	TypeGestion   *TypeGestion `gorm:"foreignKey:TypeGestionID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Bien: propriété mise en location.
type Bien struct {
	ID             uint   `gorm:"primaryKey"`
	Libelle        string `gorm:"not null"`
	Adresse        string
	ProprietaireID *uint         `gorm:"index"`
	Proprietaire   *Proprietaire `gorm:"foreignKey:ProprietaireID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Locataire struct {
	ID        uint   `gorm:"primaryKey"`
	Nom       string `gorm:"not null;index"`
	Telephone string
	BienID    *uint `gorm:"index"`
	Bien      *Bien `gorm:"foreignKey:BienID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Statuts de paiement de loyer.
const (
	LoyerPaye      = "paye"
	LoyerEnAttente = "en_attente"
	LoyerEnRetard  = "en_retard"
	LoyerAVenir    = "a_venir"
)

// PaiementLoyer: paiement de loyer d'un locataire.
type PaiementLoyer struct {
	ID           uint       `gorm:"primaryKey"`
	LocataireID  uint       `gorm:"not null;index"`
	Locataire    Locataire  `gorm:"foreignKey:LocataireID"`
	Montant      int64      `gorm:"not null"` // francs CFA
	Statut       string     `gorm:"not null;index"`
	DatePaiement *time.Time `gorm:"index"` // date calendaire, sans heure
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
