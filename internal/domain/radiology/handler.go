package radiology

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr/internal/platform/imaging"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/process_xray", h.ProcessXRay)
}

// ProcessXRay accepts a multipart upload under the xray_image field and
// runs the analysis pipeline synchronously.
func (h *Handler) ProcessXRay(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	fh, err := c.FormFile("xray_image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "xray_image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}

	res, err := h.svc.Analyze(c.Request().Context(), patientID, fh.Filename, image)
	if err != nil {
		var perr *PersistError
		switch {
		case errors.Is(err, imaging.ErrDecode):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": "unsupported or corrupt image",
			})
		case errors.Is(err, imaging.ErrInference):
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"error": "inference service unavailable",
			})
		case errors.As(err, &perr):
			body := map[string]interface{}{
				"error":              "failed to store analysis records",
				"created_conditions": perr.ConditionIDs,
			}
			if perr.NoteID != uuid.Nil {
				body["clinical_note_id"] = perr.NoteID
			}
			return c.JSON(http.StatusInternalServerError, body)
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, res)
}
