package dto

import "time"

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Logo        string    `json:"logo"`
	CreatedAt   time.Time `json:"created_at"`
}
