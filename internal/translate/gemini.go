package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"subauto/internal/config"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 120 * time.Second
)

// GeminiClient is a thin HTTP client for the Gemini generateContent
// API. Each worker constructs its own client; nothing is shared.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a translation client with the given API key.
func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Translate sends one batch of texts and returns the translations in
// order. An authentication rejection maps to ErrInvalidCredential.
func (c *GeminiClient) Translate(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(texts, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature: 0.3,
			TopP:        1,
			TopK:        1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(responseBody, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if genResp.Error != nil && genResp.Error.Message != "" {
		if strings.Contains(genResp.Error.Message, "API key not valid") {
			return nil, fmt.Errorf("translation backend rejected credentials: %w", ErrInvalidCredential)
		}
		return nil, fmt.Errorf("translation API error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("translation API request failed with status %d", resp.StatusCode)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("translation response has no candidates")
	}

	return parseTranslation(genResp.Candidates[0].Content.Parts[0].Text)
}

// buildPrompt renders the JSON-array translation contract: the model
// must answer with a "translation" array of exactly len(texts) items.
func buildPrompt(texts []string, sourceLang, targetLang string) (string, error) {
	sourceName, err := config.LanguageName(sourceLang)
	if err != nil {
		return "", err
	}
	targetName, err := config.LanguageName(targetLang)
	if err != nil {
		return "", err
	}

	formatted, err := json.MarshalIndent(texts, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode segments: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following %d %s segments into %s. ", len(texts), sourceName, targetName)
	fmt.Fprintf(&b, "The JSON response must contain a \"translation\" array with exactly %d elements. ", len(texts))
	fmt.Fprintf(&b, "Each element should be the %s translation of the corresponding %s segment. ", targetName, sourceName)
	b.WriteString("Translate only up to the punctuation mark; do not translate beyond it.\n\n")
	fmt.Fprintf(&b, "Segments: %s\n\n", formatted)
	fmt.Fprintf(&b, "Output Format (MUST have %d elements in the \"translation\" array):\n", len(texts))
	b.WriteString("```json\n{\n\"translation\": [\n    ]\n}\n```\n")

	return b.String(), nil
}

// parseTranslation extracts the fenced JSON object from the model
// answer and returns its translation array.
func parseTranslation(text string) ([]string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("translation response contains no JSON object")
	}

	var payload struct {
		Translation []string `json:"translation"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse translation payload: %w", err)
	}
	if len(payload.Translation) == 0 {
		return nil, fmt.Errorf("translation payload is empty")
	}
	return payload.Translation, nil
}
