package clinical

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	conditions ConditionRepository
	diagnoses  DiagnosisRepository
	allergies  AllergyRepository
}

func NewService(conditions ConditionRepository, diagnoses DiagnosisRepository, allergies AllergyRepository) *Service {
	return &Service{conditions: conditions, diagnoses: diagnoses, allergies: allergies}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// -- Conditions --

var validConditionStatuses = map[string]bool{
	"Active": true, "Resolved": true, "Chronic": true, "Inactive": true,
}

func (s *Service) CreateCondition(ctx context.Context, c *Condition) error {
	if c.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if c.DateDiagnosed == "" {
		return fmt.Errorf("date_diagnosed is required")
	}
	if !validDate(c.DateDiagnosed) {
		return fmt.Errorf("date_diagnosed must be YYYY-MM-DD")
	}
	if c.Status == "" {
		c.Status = "Active"
	}
	if !validConditionStatuses[c.Status] {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	return s.conditions.Create(ctx, c)
}

func (s *Service) UpdateCondition(ctx context.Context, c *Condition) error {
	existing, err := s.conditions.GetByID(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("condition not found")
	}
	if c.Name == "" {
		c.Name = existing.Name
	}
	if c.ICDCode == nil {
		c.ICDCode = existing.ICDCode
	}
	if c.DateDiagnosed == "" {
		c.DateDiagnosed = existing.DateDiagnosed
	} else if !validDate(c.DateDiagnosed) {
		return fmt.Errorf("date_diagnosed must be YYYY-MM-DD")
	}
	if c.Severity == nil {
		c.Severity = existing.Severity
	}
	if c.Status == "" {
		c.Status = existing.Status
	} else if !validConditionStatuses[c.Status] {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	c.PatientID = existing.PatientID
	return s.conditions.Update(ctx, c)
}

func (s *Service) DeleteCondition(ctx context.Context, id uuid.UUID) error {
	return s.conditions.Delete(ctx, id)
}

func (s *Service) ListConditions(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	return s.conditions.ListByPatient(ctx, patientID, limit, offset)
}

// -- Diagnoses --

func (s *Service) CreateDiagnosis(ctx context.Context, d *Diagnosis) error {
	if d.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if d.Date == "" {
		return fmt.Errorf("date is required")
	}
	if !validDate(d.Date) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(d.PrimaryDiagnosis) == "" {
		return fmt.Errorf("primary_diagnosis is required")
	}
	if strings.TrimSpace(d.Provider) == "" {
		return fmt.Errorf("provider is required")
	}
	return s.diagnoses.Create(ctx, d)
}

func (s *Service) UpdateDiagnosis(ctx context.Context, d *Diagnosis) error {
	existing, err := s.diagnoses.GetByID(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("diagnosis not found")
	}
	if d.Date == "" {
		d.Date = existing.Date
	} else if !validDate(d.Date) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if d.PrimaryDiagnosis == "" {
		d.PrimaryDiagnosis = existing.PrimaryDiagnosis
	}
	if d.SecondaryDiagnosis == nil {
		d.SecondaryDiagnosis = existing.SecondaryDiagnosis
	}
	if d.Provider == "" {
		d.Provider = existing.Provider
	}
	if d.Notes == nil {
		d.Notes = existing.Notes
	}
	d.PatientID = existing.PatientID
	return s.diagnoses.Update(ctx, d)
}

func (s *Service) DeleteDiagnosis(ctx context.Context, id uuid.UUID) error {
	return s.diagnoses.Delete(ctx, id)
}

func (s *Service) ListDiagnoses(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	return s.diagnoses.ListByPatient(ctx, patientID, limit, offset)
}

// -- Allergies --

var validAllergySeverities = map[string]bool{
	"Mild": true, "Moderate": true, "Severe": true, "Life-threatening": true,
}

func (s *Service) CreateAllergy(ctx context.Context, a *Allergy) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(a.Allergen) == "" {
		return fmt.Errorf("allergen is required")
	}
	if strings.TrimSpace(a.Reaction) == "" {
		return fmt.Errorf("reaction is required")
	}
	if !validAllergySeverities[a.Severity] {
		return fmt.Errorf("invalid severity: %s", a.Severity)
	}
	if a.DateIdentified == "" {
		return fmt.Errorf("date_identified is required")
	}
	if !validDate(a.DateIdentified) {
		return fmt.Errorf("date_identified must be YYYY-MM-DD")
	}
	return s.allergies.Create(ctx, a)
}

func (s *Service) UpdateAllergy(ctx context.Context, a *Allergy) error {
	existing, err := s.allergies.GetByID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("allergy not found")
	}
	if a.Allergen == "" {
		a.Allergen = existing.Allergen
	}
	if a.Reaction == "" {
		a.Reaction = existing.Reaction
	}
	if a.Severity == "" {
		a.Severity = existing.Severity
	} else if !validAllergySeverities[a.Severity] {
		return fmt.Errorf("invalid severity: %s", a.Severity)
	}
	if a.DateIdentified == "" {
		a.DateIdentified = existing.DateIdentified
	} else if !validDate(a.DateIdentified) {
		return fmt.Errorf("date_identified must be YYYY-MM-DD")
	}
	a.PatientID = existing.PatientID
	return s.allergies.Update(ctx, a)
}

func (s *Service) DeleteAllergy(ctx context.Context, id uuid.UUID) error {
	return s.allergies.Delete(ctx, id)
}

func (s *Service) ListAllergies(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Allergy, int, error) {
	return s.allergies.ListByPatient(ctx, patientID, limit, offset)
}
