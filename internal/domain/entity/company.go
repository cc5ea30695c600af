package entity

import "time"

// Company representa una empresa empleadora creada al aprobar un registro.
type Company struct {
	ID          int64
	Name        string
	Description string
	Address     string
	Logo        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}
