package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcdev12/dominonight/go/clients"
)

// DefaultGeminiURL is the public Generative Language API endpoint
const DefaultGeminiURL = "https://generativelanguage.googleapis.com"

// GeminiClient generates text through the generateContent REST call
type GeminiClient struct {
	*clients.BaseClient
	model string
}

// NewGeminiClient creates a client for the given model. An empty baseURL uses DefaultGeminiURL.
func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	client := &GeminiClient{
		BaseClient: clients.NewBaseClient(strings.TrimRight(baseURL, "/")),
		model:      model,
	}

	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("X-Goog-Api-Key", apiKey)

	return client
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt as a single user turn and joins the first candidate's text parts
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := c.Post(ctx, fmt.Sprintf("/v1beta/models/%s:generateContent", c.model), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var response generateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	if len(response.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
