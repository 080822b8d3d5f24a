package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/clinicore/emr/internal/config"
	"github.com/clinicore/emr/internal/domain/clinical"
	"github.com/clinicore/emr/internal/domain/immunization"
	"github.com/clinicore/emr/internal/domain/medication"
	"github.com/clinicore/emr/internal/domain/notes"
	"github.com/clinicore/emr/internal/domain/patient"
	"github.com/clinicore/emr/internal/domain/scheduling"
	"github.com/clinicore/emr/internal/platform/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demonstration patients and records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := runSeed(ctx, pool); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Println("Seed data inserted.")
			return nil
		},
	}
}

func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	patientRepo := patient.NewRepoPG(pool)
	medicationRepo := medication.NewRepoPG(pool)
	conditionRepo := clinical.NewConditionRepoPG(pool)
	allergyRepo := clinical.NewAllergyRepoPG(pool)
	noteRepo := notes.NewRepoPG(pool)
	immunizationRepo := immunization.NewRepoPG(pool)
	appointmentRepo := scheduling.NewRepoPG(pool)

	john := &patient.Patient{
		FirstName:   "John",
		LastName:    "Doe",
		DateOfBirth: "1978-03-22",
		Gender:      "Male",
		Phone:       strPtr("555-0142"),
		Email:       strPtr("john.doe@example.com"),
		Address:     strPtr("742 Maple Street, Springfield"),
		Insurance:   strPtr("Blue Shield PPO"),
	}
	if err := patientRepo.Create(ctx, john); err != nil {
		return err
	}

	maria := &patient.Patient{
		FirstName:        "Maria",
		LastName:         "Gonzalez",
		DateOfBirth:      "1991-11-05",
		Gender:           "Female",
		Phone:            strPtr("555-0178"),
		EmergencyContact: strPtr("Luis Gonzalez 555-0179"),
	}
	if err := patientRepo.Create(ctx, maria); err != nil {
		return err
	}

	meds := []*medication.Medication{
		{
			PatientID:         john.ID,
			Name:              "Lisinopril",
			Dosage:            "10mg",
			Frequency:         "Once daily",
			StartDate:         "2024-01-15",
			PrescribingDoctor: "Dr. Sarah Chen",
			Status:            "Active",
		},
		{
			PatientID:         john.ID,
			Name:              "Atorvastatin",
			Dosage:            "20mg",
			Frequency:         "Once daily at bedtime",
			StartDate:         "2023-06-02",
			PrescribingDoctor: "Dr. Sarah Chen",
			Status:            "Active",
		},
	}
	for _, m := range meds {
		if err := medicationRepo.Create(ctx, m); err != nil {
			return err
		}
	}

	if err := conditionRepo.Create(ctx, &clinical.Condition{
		PatientID:     john.ID,
		Name:          "Essential hypertension",
		ICDCode:       strPtr("I10"),
		Status:        "Chronic",
		DateDiagnosed: "2024-01-15",
	}); err != nil {
		return err
	}

	if err := allergyRepo.Create(ctx, &clinical.Allergy{
		PatientID:      maria.ID,
		Allergen:       "Penicillin",
		Reaction:       "Hives",
		Severity:       "Moderate",
		DateIdentified: "2015-07-30",
	}); err != nil {
		return err
	}

	if err := noteRepo.Create(ctx, &notes.ClinicalNote{
		PatientID: john.ID,
		Date:      "2025-02-10",
		Provider:  "Dr. Sarah Chen",
		NoteType:  "Progress Note",
		NoteText:  "Blood pressure well controlled on current regimen. Continue lisinopril 10mg daily.",
	}); err != nil {
		return err
	}

	if err := immunizationRepo.Create(ctx, &immunization.Immunization{
		PatientID:        maria.ID,
		Vaccine:          "Influenza (quadrivalent)",
		DateAdministered: "2024-10-12",
		Provider:         "Walk-in clinic",
		LotNumber:        strPtr("FLU-2024-8871"),
	}); err != nil {
		return err
	}

	if err := appointmentRepo.Create(ctx, &scheduling.Appointment{
		PatientID: john.ID,
		Date:      "2026-09-14",
		Time:      "09:30",
		Provider:  "Dr. Sarah Chen",
		Type:      "Follow-up",
		Status:    "Scheduled",
	}); err != nil {
		return err
	}

	return nil
}

func strPtr(s string) *string { return &s }
