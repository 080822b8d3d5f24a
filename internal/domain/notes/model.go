package notes

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalNote maps to the clinical_notes table. NoteType distinguishes
// hand-written notes, imaging reports and voice dictation sessions.
type ClinicalNote struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Date      string    `db:"date" json:"date"`
	Provider  string    `db:"provider" json:"provider"`
	NoteType  string    `db:"type" json:"type"`
	NoteText  string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
