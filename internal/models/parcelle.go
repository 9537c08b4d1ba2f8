package models

import (
	"time"

	"gorm.io/gorm"
)

// Statuts de parcelle. "vendue" est terminal: plus aucune transition ensuite.
const (
	StatutDisponible = "disponible"
	StatutReservee   = "reservee"
	StatutVendue     = "vendue"
)

// Parcelle: lot de terrain individuellement vendable.
// Numero est unique (insensible à la casse) parmi les parcelles non supprimées
// d'un même lotissement; l'unicité est vérifiée par le service, pas par un index,
// car l'index ne peut pas exprimer lower(numero) de façon portable sqlite/postgres.
type Parcelle struct {
	ID            uint        `gorm:"primaryKey"`
	LotissementID uint        `gorm:"not null;index"`
	Lotissement   Lotissement `gorm:"foreignKey:LotissementID"`
	IlotID        *uint       `gorm:"index"`
	Ilot          *Ilot       `gorm:"foreignKey:IlotID"`
	Numero        string      `gorm:"size:40;not null;index"` // numéro de lot
	Superficie    float64     `gorm:"not null"`               // m²
	Prix          int64       `gorm:"not null"`               // francs CFA, sans centimes
	Statut        string      `gorm:"not null;default:'disponible';index"`
	AssignedToID  *uint
	AssignedTo    *User `gorm:"foreignKey:AssignedToID"`
	Notes         string
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
