// Package voice drives dictation sessions: a session is an ordinary
// clinical note that transcribed audio fragments are appended to.
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/emr/internal/domain/notes"
	"github.com/clinicore/emr/internal/platform/speech"
	"github.com/clinicore/emr/internal/platform/websocket"
)

type Service struct {
	notes       *notes.Service
	transcriber speech.Transcriber
	events      websocket.EventPublisher
	log         zerolog.Logger
}

func NewService(noteSvc *notes.Service, transcriber speech.Transcriber, events websocket.EventPublisher, log zerolog.Logger) *Service {
	return &Service{notes: noteSvc, transcriber: transcriber, events: events, log: log}
}

// StartSession creates the note that the session's transcriptions accumulate
// into.
func (s *Service) StartSession(ctx context.Context, patientID uuid.UUID, provider string) (*notes.ClinicalNote, error) {
	if provider == "" {
		provider = "Voice Dictation"
	}
	n := &notes.ClinicalNote{
		PatientID: patientID,
		Date:      time.Now().Format("2006-01-02"),
		Provider:  provider,
		NoteType:  "Voice Dictation",
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("patient_id", patientID.String()).
		Str("note_id", n.ID.String()).
		Msg("dictation session started")
	return n, nil
}

// TranscribeAndAppend sends the audio fragment to the speech service and
// appends the recognized text to the session note.
func (s *Service) TranscribeAndAppend(ctx context.Context, noteID, patientID uuid.UUID, audio []byte, filename string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", err
	}
	if err := s.AppendTranscription(ctx, noteID, patientID, text); err != nil {
		return "", err
	}
	return text, nil
}

// AppendTranscription adds already-recognized text to the session note and
// notifies subscribed viewers. Callers that only know the note may pass a
// zero patientID; the broadcast topic is then resolved from the note itself.
func (s *Service) AppendTranscription(ctx context.Context, noteID, patientID uuid.UUID, text string) error {
	if patientID == uuid.Nil {
		n, err := s.notes.Get(ctx, noteID)
		if err != nil {
			return fmt.Errorf("append transcription: %w", err)
		}
		patientID = n.PatientID
	}
	if err := s.notes.AppendText(ctx, noteID, text); err != nil {
		return fmt.Errorf("append transcription: %w", err)
	}
	s.publishUpdate(ctx, noteID, patientID)
	return nil
}

// StopSession finalizes the session. The note stays as written; an empty
// session note is kept so the provider can fill it in manually.
func (s *Service) StopSession(ctx context.Context, noteID uuid.UUID) (*notes.ClinicalNote, error) {
	n, err := s.notes.Get(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("session note not found")
	}
	s.log.Info().
		Str("note_id", noteID.String()).
		Int("length", len(n.NoteText)).
		Msg("dictation session stopped")
	return n, nil
}

func (s *Service) publishUpdate(ctx context.Context, noteID, patientID uuid.UUID) {
	if s.events == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"note_id": noteID.String()})
	if err := s.events.Publish(ctx, websocket.NoteUpdated(patientID, noteID, payload)); err != nil {
		s.log.Warn().Err(err).Msg("note update broadcast failed")
	}
}
