package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrInference indicates the classification service failed or returned an
// unusable result. The analysis aborts; inference is never retried.
var ErrInference = errors.New("pathology inference failed")

// Classifier scores an X-ray image against the pathology vocabulary.
// The call is pure: no records are written on either side.
type Classifier interface {
	Scores(ctx context.Context, image []byte, format string) (map[string]float64, error)
}

type scoresResponse struct {
	Scores map[string]float64 `json:"scores"`
	Error  string             `json:"error,omitempty"`
}

// HTTPClassifier posts images to a DenseNet inference service and returns
// the per-pathology probability map.
type HTTPClassifier struct {
	client *resty.Client
}

func NewHTTPClassifier(baseURL string) *HTTPClassifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Accept", "application/json")

	return &HTTPClassifier{client: client}
}

func (c *HTTPClassifier) Scores(ctx context.Context, image []byte, format string) (map[string]float64, error) {
	var out scoresResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("image", "xray."+format, bytes.NewReader(image)).
		SetFormData(map[string]string{"format": format}).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: service returned %s", ErrInference, resp.Status())
	}
	if len(out.Scores) == 0 {
		return nil, fmt.Errorf("%w: empty score map", ErrInference)
	}

	return out.Scores, nil
}
