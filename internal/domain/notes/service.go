package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	notes Repository
}

func NewService(notes Repository) *Service {
	return &Service{notes: notes}
}

var validNoteTypes = map[string]bool{
	"Progress Note":   true,
	"Consultation":    true,
	"Discharge":       true,
	"Radiology":       true,
	"Voice Dictation": true,
}

func (s *Service) Create(ctx context.Context, n *ClinicalNote) error {
	if n.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if n.Date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse("2006-01-02", n.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(n.Provider) == "" {
		return fmt.Errorf("provider is required")
	}
	if n.NoteType == "" {
		n.NoteType = "Progress Note"
	}
	if !validNoteTypes[n.NoteType] {
		return fmt.Errorf("invalid note type: %s", n.NoteType)
	}
	return s.notes.Create(ctx, n)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClinicalNote, error) {
	return s.notes.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, n *ClinicalNote) error {
	existing, err := s.notes.GetByID(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("note not found")
	}
	if n.Date == "" {
		n.Date = existing.Date
	} else if _, err := time.Parse("2006-01-02", n.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if n.Provider == "" {
		n.Provider = existing.Provider
	}
	if n.NoteType == "" {
		n.NoteType = existing.NoteType
	} else if !validNoteTypes[n.NoteType] {
		return fmt.Errorf("invalid note type: %s", n.NoteType)
	}
	if n.NoteText == "" {
		n.NoteText = existing.NoteText
	}
	n.PatientID = existing.PatientID
	return s.notes.Update(ctx, n)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.notes.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalNote, int, error) {
	return s.notes.ListByPatient(ctx, patientID, limit, offset)
}

// AppendText adds transcribed or dictated text to an existing note.
// Empty fragments are ignored rather than rejected so a silent audio
// chunk does not fail a recording session.
func (s *Service) AppendText(ctx context.Context, id uuid.UUID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.notes.AppendText(ctx, id, text)
}
