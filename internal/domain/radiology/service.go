package radiology

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/emr/internal/domain/patient"
	"github.com/clinicore/emr/internal/platform/imaging"
	"github.com/clinicore/emr/internal/platform/narrative"
)

// PatientGetter is the slice of the patient repository used to build the
// narrative context.
type PatientGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// AnalysisResult is the payload returned by a completed X-ray analysis.
// SignificantFindings carries only the labels above the threshold, keyed by
// label like PathologyScores.
type AnalysisResult struct {
	SignificantFindings map[string]float64 `json:"significant_findings"`
	PathologyScores     map[string]float64 `json:"pathology_scores"`
	Analysis            string             `json:"gpt4_analysis"`
	ClinicalNoteID      uuid.UUID          `json:"clinical_note_id"`
	CreatedConditions   []uuid.UUID        `json:"created_conditions"`
	Degraded            bool               `json:"-"`
}

// PersistError reports a storage failure together with the rows that were
// durably created before it.
type PersistError struct {
	NoteID       uuid.UUID
	ConditionIDs []uuid.UUID
	Err          error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist analysis records: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

type Service struct {
	classifier imaging.Classifier
	generator  narrative.Generator
	writer     *RecordWriter
	patients   PatientGetter
	log        zerolog.Logger
}

func NewService(classifier imaging.Classifier, generator narrative.Generator, writer *RecordWriter, patients PatientGetter, log zerolog.Logger) *Service {
	return &Service{
		classifier: classifier,
		generator:  generator,
		writer:     writer,
		patients:   patients,
		log:        log,
	}
}

// Analyze runs the full pipeline for one uploaded image: decode, classify,
// select findings, generate the narrative and persist the chart records.
// A narrative outage degrades to the placeholder report instead of failing;
// decode, inference and persistence errors abort with their typed errors.
func (s *Service) Analyze(ctx context.Context, patientID uuid.UUID, filename string, image []byte) (*AnalysisResult, error) {
	format, err := imaging.DetectFormat(filename, image)
	if err != nil {
		return nil, err
	}

	scores, err := s.classifier.Scores(ctx, image, format)
	if err != nil {
		return nil, err
	}

	findings := SignificantFindings(scores, SignificanceThreshold)
	s.log.Info().
		Str("patient_id", patientID.String()).
		Str("format", format).
		Int("labels", len(scores)).
		Int("significant", len(findings)).
		Msg("xray classified")

	analyzedAt := time.Now()
	analysis, genErr := s.generator.Report(ctx, scores, s.patientContext(ctx, patientID))
	degraded := false
	if genErr != nil {
		s.log.Warn().Err(genErr).
			Str("patient_id", patientID.String()).
			Msg("narrative generation failed, recording placeholder")
		analysis = narrative.DegradedReport
		degraded = true
	}
	report := narrative.ComposeReport(analysis, scores, analyzedAt)

	significant := make(map[string]float64, len(findings))
	for _, f := range findings {
		significant[f.Label] = f.Score
	}
	res := &AnalysisResult{
		SignificantFindings: significant,
		PathologyScores:     scores,
		Analysis:            analysis,
		Degraded:            degraded,
	}

	writeRes, err := s.writer.Write(ctx, patientID, findings, report, analyzedAt)
	if writeRes != nil {
		res.ClinicalNoteID = writeRes.NoteID
		res.CreatedConditions = writeRes.ConditionIDs
	}
	if res.CreatedConditions == nil {
		res.CreatedConditions = []uuid.UUID{}
	}
	if err != nil {
		return res, &PersistError{NoteID: res.ClinicalNoteID, ConditionIDs: res.CreatedConditions, Err: err}
	}
	return res, nil
}

func (s *Service) patientContext(ctx context.Context, patientID uuid.UUID) string {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Patient: %s, DOB: %s, Gender: %s", p.FullName(), p.DateOfBirth, p.Gender)
}
