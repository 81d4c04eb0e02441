package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"claims-backend/internal/analyzer"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements analyzer.Analyzer using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. The timeout bounds each analyze
// call; zero falls back to 60s. OPENAI_TIMEOUT_SECONDS overrides both.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// rawAnalysis tolerates loosely-typed model output before normalization.
type rawAnalysis struct {
	Summary             string         `json:"summary"`
	KeyPoints           []string       `json:"keyPoints"`
	RelevantToInsurance *bool          `json:"relevantToInsurance"`
	ExtractedFields     map[string]any `json:"extractedFields"`
	RiskFactors         []string       `json:"riskFactors"`
	Recommendations     []string       `json:"recommendations"`
}

// Analyze implements analyzer.Analyzer. The text is truncated to a bounded
// excerpt before it is sent.
func (c *Client) Analyze(ctx context.Context, text, documentType string) (analyzer.Analysis, error) {
	temp := float32(0.3)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(documentType)},
			{Role: "user", Content: excerpt(text)},
		},
		Temperature: &temp,
		MaxTokens:   1000,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return analyzer.Analysis{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return analyzer.Analysis{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return analyzer.Analysis{}, fmt.Errorf("openai request timeout: %w", err)
		}
		return analyzer.Analysis{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return analyzer.Analysis{}, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return analyzer.Analysis{}, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return analyzer.Analysis{}, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return analyzer.Analysis{}, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return analyzer.Analysis{}, fmt.Errorf("openai response empty content")
	}

	return decodeAnalysis([]byte(content))
}

func decodeAnalysis(raw []byte) (analyzer.Analysis, error) {
	var loose rawAnalysis
	if err := json.Unmarshal(raw, &loose); err != nil {
		return analyzer.Analysis{}, fmt.Errorf("openai analysis invalid: %w", err)
	}

	relevant := true
	if loose.RelevantToInsurance != nil {
		relevant = *loose.RelevantToInsurance
	}

	fields := make(map[string]string, len(loose.ExtractedFields))
	for k, v := range loose.ExtractedFields {
		switch val := v.(type) {
		case string:
			fields[k] = val
		default:
			encoded, err := json.Marshal(val)
			if err != nil {
				continue
			}
			fields[k] = string(encoded)
		}
	}

	return analyzer.Normalize(analyzer.Analysis{
		Summary:             loose.Summary,
		KeyPoints:           loose.KeyPoints,
		RelevantToInsurance: relevant,
		ExtractedFields:     fields,
		RiskFactors:         loose.RiskFactors,
		Recommendations:     loose.Recommendations,
	}), nil
}

var _ analyzer.Analyzer = (*Client)(nil)
