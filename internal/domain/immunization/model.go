package immunization

import (
	"time"

	"github.com/google/uuid"
)

// Immunization maps to the immunizations table.
type Immunization struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	Vaccine          string    `db:"vaccine" json:"vaccine"`
	DateAdministered string    `db:"date_administered" json:"date_administered"`
	Provider         string    `db:"provider" json:"provider"`
	LotNumber        *string   `db:"lot_number" json:"lot_number,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
