// Package chart assembles a patient's full record from the per-section
// repositories for the single-call chart view.
package chart

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/emr/internal/domain/clinical"
	"github.com/clinicore/emr/internal/domain/immunization"
	"github.com/clinicore/emr/internal/domain/medication"
	"github.com/clinicore/emr/internal/domain/notes"
	"github.com/clinicore/emr/internal/domain/patient"
	"github.com/clinicore/emr/internal/domain/scheduling"
	"github.com/clinicore/emr/pkg/pagination"
)

// Chart is the aggregate served by GET /patients/:id.
type Chart struct {
	Patient       *patient.Patient             `json:"patient"`
	Medications   []*medication.Medication     `json:"medications"`
	Conditions    []*clinical.Condition        `json:"conditions"`
	Diagnoses     []*clinical.Diagnosis        `json:"diagnoses"`
	ClinicalNotes []*notes.ClinicalNote        `json:"clinical_notes"`
	Allergies     []*clinical.Allergy          `json:"allergies"`
	Immunizations []*immunization.Immunization `json:"immunizations"`
	Appointments  []*scheduling.Appointment    `json:"appointments"`
}

type Service struct {
	patients      patient.Repository
	medications   medication.Repository
	conditions    clinical.ConditionRepository
	diagnoses     clinical.DiagnosisRepository
	allergies     clinical.AllergyRepository
	notes         notes.Repository
	immunizations immunization.Repository
	appointments  scheduling.Repository
}

func NewService(
	patients patient.Repository,
	medications medication.Repository,
	conditions clinical.ConditionRepository,
	diagnoses clinical.DiagnosisRepository,
	allergies clinical.AllergyRepository,
	noteRepo notes.Repository,
	immunizations immunization.Repository,
	appointments scheduling.Repository,
) *Service {
	return &Service{
		patients:      patients,
		medications:   medications,
		conditions:    conditions,
		diagnoses:     diagnoses,
		allergies:     allergies,
		notes:         noteRepo,
		immunizations: immunizations,
		appointments:  appointments,
	}
}

// Get loads the patient and every record section. Sections are fetched
// sequentially; a missing patient is the only hard failure.
func (s *Service) Get(ctx context.Context, patientID uuid.UUID) (*Chart, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	ch := &Chart{Patient: p}

	if ch.Medications, _, err = s.medications.ListByPatient(ctx, patientID, pagination.MaxLimit, 0); err != nil {
		return nil, err
	}
	if ch.Conditions, _, err = s.conditions.ListByPatient(ctx, patientID, pagination.MaxLimit, 0); err != nil {
		return nil, err
	}
	if ch.Diagnoses, _, err = s.diagnoses.ListByPatient(ctx, patientID, pagination.MaxLimit, 0); err != nil {
		return nil, err
	}
	if ch.ClinicalNotes, _, err = s.notes.ListByPatient(ctx, patientID, pagination.MaxLimit, 0); err != nil {
		return nil, err
	}
	if ch.Allergies, _, err = s.allergies.ListByPatient(ctx, patientID, pagination.MaxLimit, 0); err != nil {
		return nil, err
	}
	if ch.Immunizations, _, err = s.immunizations.ListByPatient(ctx, patientID, pagination.MaxLimit, 0); err != nil {
		return nil, err
	}
	if ch.Appointments, _, err = s.appointments.ListByPatient(ctx, patientID, pagination.MaxLimit, 0); err != nil {
		return nil, err
	}
	return ch, nil
}
