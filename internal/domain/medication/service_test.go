package medication

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Medication
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Medication)}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = med.CreatedAt
	m.items[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Medication, error) {
	med, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return med, nil
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	if _, ok := m.items[med.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	m.items[med.ID] = med
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	var items []*Medication
	for _, med := range m.items {
		if med.PatientID == patientID {
			items = append(items, med)
		}
	}
	return items, len(items), nil
}

func validMedication(patientID uuid.UUID) *Medication {
	return &Medication{
		PatientID:         patientID,
		Name:              "Lisinopril",
		Dosage:            "10mg",
		Frequency:         "Once daily",
		StartDate:         "2024-02-01",
		PrescribingDoctor: "Dr. Patel",
	}
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc := NewService(newMockRepo())
	med := validMedication(uuid.New())
	if err := svc.Create(context.Background(), med); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if med.Status != "Active" {
		t.Errorf("expected default status Active, got %q", med.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	pid := uuid.New()

	cases := []struct {
		name   string
		mutate func(*Medication)
	}{
		{"missing patient", func(m *Medication) { m.PatientID = uuid.Nil }},
		{"missing name", func(m *Medication) { m.Name = "" }},
		{"missing dosage", func(m *Medication) { m.Dosage = "" }},
		{"missing frequency", func(m *Medication) { m.Frequency = "" }},
		{"missing start date", func(m *Medication) { m.StartDate = "" }},
		{"bad start date", func(m *Medication) { m.StartDate = "Feb 1 2024" }},
		{"bad end date", func(m *Medication) { bad := "soon"; m.EndDate = &bad }},
		{"missing doctor", func(m *Medication) { m.PrescribingDoctor = "" }},
		{"bad status", func(m *Medication) { m.Status = "Paused" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			med := validMedication(pid)
			tc.mutate(med)
			if err := svc.Create(context.Background(), med); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpdateMergesAndKeepsPatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	pid := uuid.New()
	med := validMedication(pid)
	if err := svc.Create(context.Background(), med); err != nil {
		t.Fatalf("Create: %v", err)
	}

	update := &Medication{ID: med.ID, Status: "Discontinued", PatientID: uuid.New()}
	if err := svc.Update(context.Background(), update); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := svc.Get(context.Background(), med.ID)
	if got.Status != "Discontinued" {
		t.Errorf("status not updated: %q", got.Status)
	}
	if got.Name != "Lisinopril" {
		t.Errorf("name not preserved: %q", got.Name)
	}
	if got.PatientID != pid {
		t.Error("patient_id must not be reassignable")
	}
}

func TestListByPatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	pid := uuid.New()
	for i := 0; i < 2; i++ {
		if err := svc.Create(context.Background(), validMedication(pid)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := svc.Create(context.Background(), validMedication(uuid.New())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, total, err := svc.ListByPatient(context.Background(), pid, 20, 0)
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 medications, got %d", total)
	}
}
