package clinical

import (
	"time"

	"github.com/google/uuid"
)

// Condition maps to the conditions table. SourceNoteID links conditions
// produced by imaging analysis back to the generated clinical note.
type Condition struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name          string     `db:"name" json:"name"`
	ICDCode       *string    `db:"icd_code" json:"icd_code,omitempty"`
	Status        string     `db:"status" json:"status"`
	DateDiagnosed string     `db:"date_diagnosed" json:"date_diagnosed"`
	Severity      *string    `db:"severity" json:"severity,omitempty"`
	SourceNoteID  *uuid.UUID `db:"source_note_id" json:"source_note_id,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Diagnosis maps to the diagnoses table.
type Diagnosis struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	PatientID          uuid.UUID `db:"patient_id" json:"patient_id"`
	Date               string    `db:"date" json:"date"`
	PrimaryDiagnosis   string    `db:"primary_diagnosis" json:"primary_diagnosis"`
	SecondaryDiagnosis *string   `db:"secondary_diagnosis" json:"secondary_diagnosis,omitempty"`
	Provider           string    `db:"provider" json:"provider"`
	Notes              *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Allergy maps to the allergies table.
type Allergy struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	Allergen       string    `db:"allergen" json:"allergen"`
	Reaction       string    `db:"reaction" json:"reaction"`
	Severity       string    `db:"severity" json:"severity"`
	DateIdentified string    `db:"date_identified" json:"date_identified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
