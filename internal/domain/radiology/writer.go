package radiology

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/emr/internal/domain/clinical"
	"github.com/clinicore/emr/internal/domain/notes"
	"github.com/clinicore/emr/internal/platform/db"
)

// NoteCreator is the slice of the notes repository the writer needs.
type NoteCreator interface {
	Create(ctx context.Context, n *notes.ClinicalNote) error
}

// ConditionCreator is the slice of the condition repository the writer needs.
type ConditionCreator interface {
	Create(ctx context.Context, c *clinical.Condition) error
}

// SessionPool acquires a dedicated connection so that one analysis's note and
// condition inserts land on a single database session.
type SessionPool interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
}

// WriteResult reports the rows a Write call actually created. On a partial
// failure it carries everything durable so the caller can surface it.
type WriteResult struct {
	NoteID       uuid.UUID
	ConditionIDs []uuid.UUID
}

// RecordWriter persists an analysis as one clinical note plus one condition
// per significant finding. Writes are sequential and best-effort: a failure
// mid-way leaves earlier rows in place and is reported alongside them.
type RecordWriter struct {
	notes      NoteCreator
	conditions ConditionCreator
	pool       SessionPool
}

// NewRecordWriter builds a writer over the note and condition repositories.
// pool may be nil, in which case writes go through whatever connection the
// repositories pick themselves.
func NewRecordWriter(noteRepo NoteCreator, conditionRepo ConditionCreator, pool SessionPool) *RecordWriter {
	return &RecordWriter{notes: noteRepo, conditions: conditionRepo, pool: pool}
}

const radiologyProvider = "AI Radiology Assistant"

func (w *RecordWriter) Write(ctx context.Context, patientID uuid.UUID, findings []Finding, report string, analyzedAt time.Time) (*WriteResult, error) {
	if w.pool != nil {
		conn, err := w.pool.Acquire(ctx)
		if err != nil {
			return &WriteResult{}, fmt.Errorf("acquire session: %w", err)
		}
		if conn != nil {
			defer conn.Release()
			ctx = db.WithConn(ctx, conn)
		}
	}

	date := analyzedAt.Format("2006-01-02")

	note := &notes.ClinicalNote{
		PatientID: patientID,
		Date:      date,
		Provider:  radiologyProvider,
		NoteType:  "Radiology",
		NoteText:  report,
	}
	if err := w.notes.Create(ctx, note); err != nil {
		return &WriteResult{}, fmt.Errorf("create clinical note: %w", err)
	}

	res := &WriteResult{NoteID: note.ID}
	for _, f := range findings {
		severity := SeverityForScore(f.Score)
		cond := &clinical.Condition{
			PatientID:     patientID,
			Name:          f.Label,
			Status:        "Active",
			DateDiagnosed: date,
			Severity:      &severity,
			SourceNoteID:  &note.ID,
		}
		if err := w.conditions.Create(ctx, cond); err != nil {
			return res, fmt.Errorf("create condition %q: %w", f.Label, err)
		}
		res.ConditionIDs = append(res.ConditionIDs, cond.ID)
	}
	return res, nil
}
