package medication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	medications Repository
}

func NewService(medications Repository) *Service {
	return &Service{medications: medications}
}

var validStatuses = map[string]bool{
	"Active": true, "Discontinued": true, "Completed": true, "On Hold": true,
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(m.Dosage) == "" {
		return fmt.Errorf("dosage is required")
	}
	if strings.TrimSpace(m.Frequency) == "" {
		return fmt.Errorf("frequency is required")
	}
	if m.StartDate == "" {
		return fmt.Errorf("start_date is required")
	}
	if _, err := time.Parse("2006-01-02", m.StartDate); err != nil {
		return fmt.Errorf("start_date must be YYYY-MM-DD")
	}
	if m.EndDate != nil {
		if _, err := time.Parse("2006-01-02", *m.EndDate); err != nil {
			return fmt.Errorf("end_date must be YYYY-MM-DD")
		}
	}
	if strings.TrimSpace(m.PrescribingDoctor) == "" {
		return fmt.Errorf("prescribing_doctor is required")
	}
	if m.Status == "" {
		m.Status = "Active"
	}
	if !validStatuses[m.Status] {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Medication) error {
	existing, err := s.medications.GetByID(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("medication not found")
	}
	if m.Name == "" {
		m.Name = existing.Name
	}
	if m.Dosage == "" {
		m.Dosage = existing.Dosage
	}
	if m.Frequency == "" {
		m.Frequency = existing.Frequency
	}
	if m.StartDate == "" {
		m.StartDate = existing.StartDate
	}
	if m.EndDate == nil {
		m.EndDate = existing.EndDate
	}
	if m.PrescribingDoctor == "" {
		m.PrescribingDoctor = existing.PrescribingDoctor
	}
	if m.Status == "" {
		m.Status = existing.Status
	} else if !validStatuses[m.Status] {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	m.PatientID = existing.PatientID
	return s.medications.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.medications.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return s.medications.ListByPatient(ctx, patientID, limit, offset)
}
