package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medications table.
type Medication struct {
	ID                uuid.UUID `db:"id" json:"id"`
	PatientID         uuid.UUID `db:"patient_id" json:"patient_id"`
	Name              string    `db:"name" json:"name"`
	Dosage            string    `db:"dosage" json:"dosage"`
	Frequency         string    `db:"frequency" json:"frequency"`
	StartDate         string    `db:"start_date" json:"start_date"`
	EndDate           *string   `db:"end_date" json:"end_date,omitempty"`
	PrescribingDoctor string    `db:"prescribing_doctor" json:"prescribing_doctor"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
