package models

import "time"

// Lotissement: un projet de morcellement contenant ilots et parcelles.
type Lotissement struct {
	ID          uint   `gorm:"primaryKey"`
	Nom         string `gorm:"not null;index"`
	Ville       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ilot: sous-groupe nommé de parcelles, capacité optionnelle.
type Ilot struct {
	ID            uint        `gorm:"primaryKey"`
	LotissementID uint        `gorm:"not null;index"`
	Lotissement   Lotissement `gorm:"foreignKey:LotissementID"`
	Nom           string      `gorm:"not null"`
	Capacite      *int        // nil = illimité
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
