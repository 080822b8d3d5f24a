package immunization

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	immunizations Repository
}

func NewService(immunizations Repository) *Service {
	return &Service{immunizations: immunizations}
}

func (s *Service) Create(ctx context.Context, im *Immunization) error {
	if im.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(im.Vaccine) == "" {
		return fmt.Errorf("vaccine is required")
	}
	if im.DateAdministered == "" {
		return fmt.Errorf("date_administered is required")
	}
	if _, err := time.Parse("2006-01-02", im.DateAdministered); err != nil {
		return fmt.Errorf("date_administered must be YYYY-MM-DD")
	}
	if strings.TrimSpace(im.Provider) == "" {
		return fmt.Errorf("provider is required")
	}
	return s.immunizations.Create(ctx, im)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Immunization, error) {
	return s.immunizations.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, im *Immunization) error {
	existing, err := s.immunizations.GetByID(ctx, im.ID)
	if err != nil {
		return fmt.Errorf("immunization not found")
	}
	if im.Vaccine == "" {
		im.Vaccine = existing.Vaccine
	}
	if im.DateAdministered == "" {
		im.DateAdministered = existing.DateAdministered
	} else if _, err := time.Parse("2006-01-02", im.DateAdministered); err != nil {
		return fmt.Errorf("date_administered must be YYYY-MM-DD")
	}
	if im.Provider == "" {
		im.Provider = existing.Provider
	}
	if im.LotNumber == nil {
		im.LotNumber = existing.LotNumber
	}
	im.PatientID = existing.PatientID
	return s.immunizations.Update(ctx, im)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.immunizations.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Immunization, int, error) {
	return s.immunizations.ListByPatient(ctx, patientID, limit, offset)
}
