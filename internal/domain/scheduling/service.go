package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	appointments Repository
}

func NewService(appointments Repository) *Service {
	return &Service{appointments: appointments}
}

var validStatuses = map[string]bool{
	"Scheduled": true, "Completed": true, "Cancelled": true, "No Show": true,
}

func validTime(s string) bool {
	if _, err := time.Parse("15:04", s); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.Date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if a.Time == "" {
		return fmt.Errorf("time is required")
	}
	if !validTime(a.Time) {
		return fmt.Errorf("time must be HH:MM")
	}
	if strings.TrimSpace(a.Provider) == "" {
		return fmt.Errorf("provider is required")
	}
	if strings.TrimSpace(a.Type) == "" {
		return fmt.Errorf("type is required")
	}
	if a.Status == "" {
		a.Status = "Scheduled"
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	existing, err := s.appointments.GetByID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("appointment not found")
	}
	if a.Date == "" {
		a.Date = existing.Date
	} else if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if a.Time == "" {
		a.Time = existing.Time
	} else if !validTime(a.Time) {
		return fmt.Errorf("time must be HH:MM")
	}
	if a.Provider == "" {
		a.Provider = existing.Provider
	}
	if a.Type == "" {
		a.Type = existing.Type
	}
	if a.Status == "" {
		a.Status = existing.Status
	} else if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	if a.Notes == nil {
		a.Notes = existing.Notes
	}
	a.PatientID = existing.PatientID
	return s.appointments.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}
