package generate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bufyyy/chordai/model"
)

// ErrGenerationFailed wraps prediction-backend failures. The caller
// still receives whatever partial progression existed before the step.
var ErrGenerationFailed = errors.New("generation failed")

// Backend produces one probability vector over the chord-id space per
// generation step. Both the model-backed path and the pattern fallback
// satisfy this; callers never know which they hold.
type Backend interface {
	Predict(in model.ModelInput) ([]float64, error)
}

// HTTPBackend calls a remote inference server hosting the trained model.
type HTTPBackend struct {
	url    string
	client *http.Client
}

func NewHTTPBackend(url string) *HTTPBackend {
	return &HTTPBackend{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (b *HTTPBackend) Predict(in model.ModelInput) ([]float64, error) {
	body, err := json.Marshal(model.PredictRequestBody{Input: in})
	if err != nil {
		return nil, fmt.Errorf("encoding model input: %w", err)
	}

	resp, err := b.client.Post(b.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model returned %v", resp.Status)
	}

	var out model.PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding model response: %w", err)
	}
	return out.Probs, nil
}
