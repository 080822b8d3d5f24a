package clinical

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockConditionRepo struct {
	items map[uuid.UUID]*Condition
}

func newMockConditionRepo() *mockConditionRepo {
	return &mockConditionRepo{items: make(map[uuid.UUID]*Condition)}
}

func (m *mockConditionRepo) Create(_ context.Context, c *Condition) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.items[c.ID] = c
	return nil
}

func (m *mockConditionRepo) GetByID(_ context.Context, id uuid.UUID) (*Condition, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return c, nil
}

func (m *mockConditionRepo) Update(_ context.Context, c *Condition) error {
	if _, ok := m.items[c.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	m.items[c.ID] = c
	return nil
}

func (m *mockConditionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockConditionRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Condition, int, error) {
	var items []*Condition
	for _, c := range m.items {
		if c.PatientID == patientID {
			items = append(items, c)
		}
	}
	return items, len(items), nil
}

type mockDiagnosisRepo struct {
	items map[uuid.UUID]*Diagnosis
}

func newMockDiagnosisRepo() *mockDiagnosisRepo {
	return &mockDiagnosisRepo{items: make(map[uuid.UUID]*Diagnosis)}
}

func (m *mockDiagnosisRepo) Create(_ context.Context, d *Diagnosis) error {
	d.ID = uuid.New()
	m.items[d.ID] = d
	return nil
}

func (m *mockDiagnosisRepo) GetByID(_ context.Context, id uuid.UUID) (*Diagnosis, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return d, nil
}

func (m *mockDiagnosisRepo) Update(_ context.Context, d *Diagnosis) error {
	if _, ok := m.items[d.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	m.items[d.ID] = d
	return nil
}

func (m *mockDiagnosisRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockDiagnosisRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	var items []*Diagnosis
	for _, d := range m.items {
		if d.PatientID == patientID {
			items = append(items, d)
		}
	}
	return items, len(items), nil
}

type mockAllergyRepo struct {
	items map[uuid.UUID]*Allergy
}

func newMockAllergyRepo() *mockAllergyRepo {
	return &mockAllergyRepo{items: make(map[uuid.UUID]*Allergy)}
}

func (m *mockAllergyRepo) Create(_ context.Context, a *Allergy) error {
	a.ID = uuid.New()
	m.items[a.ID] = a
	return nil
}

func (m *mockAllergyRepo) GetByID(_ context.Context, id uuid.UUID) (*Allergy, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return a, nil
}

func (m *mockAllergyRepo) Update(_ context.Context, a *Allergy) error {
	if _, ok := m.items[a.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockAllergyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockAllergyRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Allergy, int, error) {
	var items []*Allergy
	for _, a := range m.items {
		if a.PatientID == patientID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func newTestService() (*Service, *mockConditionRepo, *mockDiagnosisRepo, *mockAllergyRepo) {
	conds := newMockConditionRepo()
	diags := newMockDiagnosisRepo()
	alls := newMockAllergyRepo()
	return NewService(conds, diags, alls), conds, diags, alls
}

func TestCreateConditionDefaultsStatus(t *testing.T) {
	svc, _, _, _ := newTestService()
	cond := &Condition{
		PatientID:     uuid.New(),
		Name:          "Hypertension",
		DateDiagnosed: "2023-11-04",
	}
	if err := svc.CreateCondition(context.Background(), cond); err != nil {
		t.Fatalf("CreateCondition: %v", err)
	}
	if cond.Status != "Active" {
		t.Errorf("expected default status Active, got %q", cond.Status)
	}
}

func TestCreateConditionValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	cases := []struct {
		name string
		cond Condition
	}{
		{"missing patient", Condition{Name: "X", DateDiagnosed: "2023-11-04"}},
		{"missing name", Condition{PatientID: uuid.New(), DateDiagnosed: "2023-11-04"}},
		{"missing date", Condition{PatientID: uuid.New(), Name: "X"}},
		{"bad date", Condition{PatientID: uuid.New(), Name: "X", DateDiagnosed: "Nov 4"}},
		{"bad status", Condition{PatientID: uuid.New(), Name: "X", DateDiagnosed: "2023-11-04", Status: "Gone"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond := tc.cond
			if err := svc.CreateCondition(context.Background(), &cond); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateConditionKeepsSourceNote(t *testing.T) {
	svc, repo, _, _ := newTestService()
	noteID := uuid.New()
	cond := &Condition{
		PatientID:     uuid.New(),
		Name:          "Cardiomegaly",
		DateDiagnosed: "2025-03-18",
		SourceNoteID:  &noteID,
	}
	if err := svc.CreateCondition(context.Background(), cond); err != nil {
		t.Fatalf("CreateCondition: %v", err)
	}
	stored := repo.items[cond.ID]
	if stored.SourceNoteID == nil || *stored.SourceNoteID != noteID {
		t.Error("source_note_id not persisted")
	}
}

func TestDuplicateConditionsAllowed(t *testing.T) {
	svc, repo, _, _ := newTestService()
	pid := uuid.New()
	for i := 0; i < 2; i++ {
		cond := &Condition{PatientID: pid, Name: "Cardiomegaly", DateDiagnosed: "2025-03-18"}
		if err := svc.CreateCondition(context.Background(), cond); err != nil {
			t.Fatalf("CreateCondition: %v", err)
		}
	}
	if len(repo.items) != 2 {
		t.Errorf("expected 2 condition rows, got %d", len(repo.items))
	}
}

func TestCreateDiagnosisValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	valid := Diagnosis{
		PatientID:        uuid.New(),
		Date:             "2024-09-30",
		PrimaryDiagnosis: "Community-acquired pneumonia",
		Provider:         "Dr. Osei",
	}
	if err := svc.CreateDiagnosis(context.Background(), &valid); err != nil {
		t.Fatalf("CreateDiagnosis: %v", err)
	}

	missing := valid
	missing.ID = uuid.Nil
	missing.PrimaryDiagnosis = ""
	if err := svc.CreateDiagnosis(context.Background(), &missing); err == nil {
		t.Error("expected error for missing primary_diagnosis")
	}
}

func TestCreateAllergyValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	valid := Allergy{
		PatientID:      uuid.New(),
		Allergen:       "Penicillin",
		Reaction:       "Hives",
		Severity:       "Severe",
		DateIdentified: "2019-05-21",
	}
	if err := svc.CreateAllergy(context.Background(), &valid); err != nil {
		t.Fatalf("CreateAllergy: %v", err)
	}

	bad := valid
	bad.ID = uuid.Nil
	bad.Severity = "Huge"
	if err := svc.CreateAllergy(context.Background(), &bad); err == nil {
		t.Error("expected error for invalid severity")
	}
}

func TestUpdateAllergyMerges(t *testing.T) {
	svc, _, _, repo := newTestService()
	a := &Allergy{
		PatientID:      uuid.New(),
		Allergen:       "Penicillin",
		Reaction:       "Hives",
		Severity:       "Moderate",
		DateIdentified: "2019-05-21",
	}
	if err := svc.CreateAllergy(context.Background(), a); err != nil {
		t.Fatalf("CreateAllergy: %v", err)
	}

	update := &Allergy{ID: a.ID, Severity: "Severe"}
	if err := svc.UpdateAllergy(context.Background(), update); err != nil {
		t.Fatalf("UpdateAllergy: %v", err)
	}
	got := repo.items[a.ID]
	if got.Severity != "Severe" || got.Allergen != "Penicillin" {
		t.Errorf("merge failed: %+v", got)
	}
}
