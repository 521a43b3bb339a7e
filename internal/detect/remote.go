package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteDetector calls an external analyzer service speaking the
// presidio-style REST contract: POST {base}/analyze with {text, language},
// answered by a JSON array of {entity_type, start, end, score}.
type RemoteDetector struct {
	baseURL          string
	client           *http.Client
	maxResponseBytes int64
}

// NewRemoteDetector creates a detector client for the given base URL.
func NewRemoteDetector(baseURL string, timeout time.Duration) *RemoteDetector {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteDetector{
		baseURL:          baseURL,
		maxResponseBytes: 1 << 20,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type analyzeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (d *RemoteDetector) Analyze(ctx context.Context, text, language string) ([]Detection, error) {
	if language == "" {
		language = "en"
	}

	body, err := json.Marshal(analyzeRequest{Text: text, Language: language})
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/analyze", d.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, d.maxResponseBytes+1)
	respBody, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read analyzer response: %w", err)
	}
	if int64(len(respBody)) > d.maxResponseBytes {
		return nil, fmt.Errorf("analyzer response exceeded limit (%d bytes)", d.maxResponseBytes)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("analyzer error: status %d: %s", resp.StatusCode, string(respBody))
	}

	var dets []Detection
	if err := json.Unmarshal(respBody, &dets); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	return dets, nil
}
