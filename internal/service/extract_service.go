package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/config"
)

// Extraction errors.
var (
	ErrExtractDisabled = errors.New("extraction is not configured")
	ErrExtractFailed   = errors.New("extraction failed")
)

const generateContentURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// ExtractService turns scanned documents into structured JSON through the
// Gemini generateContent endpoint. The output is best-effort and
// non-deterministic; callers must validate it before merging anything.
type ExtractService struct {
	cfg    *config.Config
	client *http.Client
	log    zerolog.Logger
}

// NewExtractService creates a new ExtractService.
func NewExtractService(cfg *config.Config, log zerolog.Logger) *ExtractService {
	return &ExtractService{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    log.With().Str("component", "extract_service").Logger(),
	}
}

// Enabled reports whether an API key is configured.
func (s *ExtractService) Enabled() bool {
	return s.cfg.GeminiAPIKey != ""
}

// Extract sends one image plus a natural-language instruction and a target
// JSON schema, and returns the model's JSON output. The response text is
// sliced to its outermost JSON value to tolerate markdown fencing.
func (s *ExtractService) Extract(ctx context.Context, imageBase64, mimeType, instruction string, schema map[string]interface{}) (json.RawMessage, error) {
	if !s.Enabled() {
		return nil, ErrExtractDisabled
	}

	generationConfig := map[string]interface{}{
		"temperature":      0.2,
		"responseMimeType": "application/json",
	}
	if schema != nil {
		generationConfig["responseSchema"] = schema
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": instruction},
					{
						"inline_data": map[string]string{
							"mime_type": mimeType,
							"data":      imageBase64,
						},
					},
				},
			},
		},
		"generationConfig": generationConfig,
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf(generateContentURL, s.cfg.GeminiModel, s.cfg.GeminiAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrExtractFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode).Msg("Extraction API error")
		return nil, fmt.Errorf("%w: status %d", ErrExtractFailed, resp.StatusCode)
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExtractFailed, err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrExtractFailed)
	}

	text := apiResp.Candidates[0].Content.Parts[0].Text
	raw, err := sliceJSON(text)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// sliceJSON extracts the outermost JSON object or array from model output,
// which may be wrapped in markdown code fences.
func sliceJSON(text string) (json.RawMessage, error) {
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return nil, fmt.Errorf("%w: no JSON in response", ErrExtractFailed)
	}
	var end int
	if text[start] == '{' {
		end = strings.LastIndex(text, "}")
	} else {
		end = strings.LastIndex(text, "]")
	}
	if end <= start {
		return nil, fmt.Errorf("%w: unterminated JSON in response", ErrExtractFailed)
	}
	return json.RawMessage(text[start : end+1]), nil
}
