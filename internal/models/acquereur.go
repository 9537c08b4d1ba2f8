package models

import "time"

// Acquereur: acheteur potentiel ou effectif d'une parcelle.
type Acquereur struct {
	ID            uint   `gorm:"primaryKey"`
	Nom           string `gorm:"not null;index"`
	Telephone     string `gorm:"index"`
	Email         string
	CNINumero     string `gorm:"index"` // numéro de carte nationale d'identité
	Adresse       string
	DateNaissance *time.Time
	LieuNaissance string
	Profession    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
