package models

import "time"

// Audit logging
type AuditLog struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      // qui a fait la modification
	EntityType string    // ex: "Parcelle", "ReservationParcelle", "Vente"
	EntityID   uint      // ID de l'entité modifiée
	Action     string    // ex: "reserver", "annuler", "vendre"
	Details    string    // optionnel
	CreatedAt  time.Time // quand
}
