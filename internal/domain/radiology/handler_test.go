package radiology

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr/internal/platform/imaging"
)

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func processXRay(t *testing.T, h *Handler, patientID string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/patients/"+patientID+"/process_xray", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(patientID)
	return rec, h.ProcessXRay(c)
}

func TestProcessXRaySuccess(t *testing.T) {
	cl := &mockClassifier{scores: map[string]float64{"Cardiomegaly": 0.42, "Pneumonia": 0.12}}
	gen := &mockGenerator{report: "Mild cardiomegaly."}
	noteRepo := newMockNoteCreator()
	condRepo := newMockConditionCreator()
	h := NewHandler(newAnalysisService(cl, gen, noteRepo, condRepo))

	body, ct := multipartUpload(t, "xray_image", "chest.png", pngImage)
	rec, err := processXRay(t, h, uuid.New().String(), body, ct)
	if err != nil {
		t.Fatalf("ProcessXRay: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"significant_findings", "pathology_scores", "gpt4_analysis", "clinical_note_id", "created_conditions"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}

	var findings map[string]float64
	if err := json.Unmarshal(resp["significant_findings"], &findings); err != nil {
		t.Fatalf("findings: %v", err)
	}
	if len(findings) != 1 || findings["Cardiomegaly"] != 0.42 {
		t.Errorf("findings = %v", findings)
	}
	var created []uuid.UUID
	if err := json.Unmarshal(resp["created_conditions"], &created); err != nil {
		t.Fatalf("created_conditions: %v", err)
	}
	if len(created) != 1 {
		t.Errorf("expected 1 created condition, got %d", len(created))
	}
}

func TestProcessXRayCorruptUpload(t *testing.T) {
	cl := &mockClassifier{scores: map[string]float64{}}
	gen := &mockGenerator{report: "x"}
	noteRepo := newMockNoteCreator()
	condRepo := newMockConditionCreator()
	h := NewHandler(newAnalysisService(cl, gen, noteRepo, condRepo))

	body, ct := multipartUpload(t, "xray_image", "chest.png", []byte("definitely not an image"))
	rec, err := processXRay(t, h, uuid.New().String(), body, ct)
	if err != nil {
		t.Fatalf("ProcessXRay: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(noteRepo.items) != 0 || len(condRepo.items) != 0 {
		t.Error("no rows may be written for a rejected upload")
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["error"] == nil {
		t.Error("error body expected")
	}
}

func TestProcessXRayMissingFile(t *testing.T) {
	h := NewHandler(newAnalysisService(&mockClassifier{}, &mockGenerator{}, newMockNoteCreator(), newMockConditionCreator()))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()
	_, err := processXRay(t, h, uuid.New().String(), &buf, mw.FormDataContentType())
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestProcessXRayInferenceDown(t *testing.T) {
	cl := &mockClassifier{err: imaging.ErrInference}
	h := NewHandler(newAnalysisService(cl, &mockGenerator{report: "x"}, newMockNoteCreator(), newMockConditionCreator()))

	body, ct := multipartUpload(t, "xray_image", "chest.png", pngImage)
	rec, err := processXRay(t, h, uuid.New().String(), body, ct)
	if err != nil {
		t.Fatalf("ProcessXRay: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestProcessXRayPersistFailure(t *testing.T) {
	cl := &mockClassifier{scores: map[string]float64{"Effusion": 0.67, "Cardiomegaly": 0.42}}
	gen := &mockGenerator{report: "x"}
	noteRepo := newMockNoteCreator()
	condRepo := newMockConditionCreator()
	condRepo.failAfter = 1
	h := NewHandler(newAnalysisService(cl, gen, noteRepo, condRepo))

	body, ct := multipartUpload(t, "xray_image", "chest.png", pngImage)
	rec, err := processXRay(t, h, uuid.New().String(), body, ct)
	if err != nil {
		t.Fatalf("ProcessXRay: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp struct {
		Error             string      `json:"error"`
		ClinicalNoteID    *uuid.UUID  `json:"clinical_note_id"`
		CreatedConditions []uuid.UUID `json:"created_conditions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ClinicalNoteID == nil {
		t.Error("durable note must be reported")
	}
	if len(resp.CreatedConditions) != 1 {
		t.Errorf("expected 1 durable condition, got %d", len(resp.CreatedConditions))
	}
}

func TestProcessXRayDegradedNarrativeStillOK(t *testing.T) {
	cl := &mockClassifier{scores: map[string]float64{"Cardiomegaly": 0.42}}
	gen := &mockGenerator{err: context.DeadlineExceeded}
	noteRepo := newMockNoteCreator()
	h := NewHandler(newAnalysisService(cl, gen, noteRepo, newMockConditionCreator()))

	body, ct := multipartUpload(t, "xray_image", "chest.png", pngImage)
	rec, err := processXRay(t, h, uuid.New().String(), body, ct)
	if err != nil {
		t.Fatalf("ProcessXRay: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite narrative outage, got %d", rec.Code)
	}
	if len(noteRepo.items) != 1 {
		t.Error("note must still be written")
	}
}
