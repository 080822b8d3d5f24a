package voice

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr/internal/platform/speech"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/voice/start-recording", h.StartRecording)
	api.POST("/voice/transcribe-audio", h.TranscribeAudio)
	api.POST("/voice/add-transcription", h.AddTranscription)
	api.POST("/voice/stop-recording", h.StopRecording)
}

type startRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	Provider  string    `json:"provider"`
}

func (h *Handler) StartRecording(c echo.Context) error {
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	n, err := h.svc.StartSession(c.Request().Context(), req.PatientID, req.Provider)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"note_id": n.ID,
	})
}

// TranscribeAudio accepts a multipart audio fragment plus the session note
// and patient identifiers as form fields.
func (h *Handler) TranscribeAudio(c echo.Context) error {
	noteID, err := uuid.Parse(c.FormValue("note_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid note_id")
	}
	patientID, err := uuid.Parse(c.FormValue("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read audio")
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read audio")
	}

	text, err := h.svc.TranscribeAndAppend(c.Request().Context(), noteID, patientID, audio, fh.Filename)
	if err != nil {
		if errors.Is(err, speech.ErrTranscription) {
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"error": "transcription service unavailable",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"transcription": text,
	})
}

type appendRequest struct {
	NoteID        uuid.UUID `json:"note_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Transcription string    `json:"transcription"`
}

func (h *Handler) AddTranscription(c echo.Context) error {
	var req appendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.NoteID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "note_id is required")
	}
	if err := h.svc.AppendTranscription(c.Request().Context(), req.NoteID, req.PatientID, req.Transcription); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

type stopRequest struct {
	NoteID uuid.UUID `json:"note_id"`
}

func (h *Handler) StopRecording(c echo.Context) error {
	var req stopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.NoteID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "note_id is required")
	}
	n, err := h.svc.StopSession(c.Request().Context(), req.NoteID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"note":    n,
	})
}
