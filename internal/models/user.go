package models

import "time"

// User: gestionnaire/agent de l'agence. Roles and permissions live outside
// this service; we only need an identity for assigned_to / sold_by.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null"` // hashé (bcrypt)
	Nom       string `gorm:"index"`
	Prenom    string `gorm:"index"`
	Telephone string
	CreatedAt time.Time
	UpdatedAt time.Time
}
