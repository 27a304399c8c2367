package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"valuator/internal/config"
	"valuator/internal/model"
	"valuator/internal/utils"
)

// ExtractorClient is the optional NLU collaborator: it asks an
// OpenAI-compatible chat API to pull slot values out of a free-text
// utterance. The dialogue works fully without it; any failure here is a
// no-op extraction, never an error.
type ExtractorClient struct {
	config     *config.OpenAIConfig
	httpClient *http.Client
}

// NewExtractorClient creates an extractor against an OpenAI-compatible
// endpoint.
func NewExtractorClient(cfg *config.OpenAIConfig) *ExtractorClient {
	return &ExtractorClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready.
func (c *ExtractorClient) IsEnabled() bool {
	return c != nil && c.config.Enabled
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Extract returns partial slot updates parsed from one utterance, given
// the question the assistant last asked. Null and absent fields are
// dropped, so existing slots are never overwritten with nothing. Returns
// nil when the extractor is disabled or parsing fails.
func (c *ExtractorClient) Extract(ctx context.Context, questionContext, utterance string) map[string]any {
	if !c.IsEnabled() {
		return nil
	}

	resp, err := c.chatCompletion(ctx, chatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: "Return JSON only."},
			{Role: "user", Content: extractionPrompt(questionContext, utterance)},
		},
		Temperature: c.config.ChatTemperature,
		MaxTokens:   c.config.ChatMaxTokens,
	})
	if err != nil {
		log.Printf("Slot extraction failed: %v (treating as no extraction)", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	var parsed map[string]any
	if err := utils.ParseAIJSON(resp.Choices[0].Message.Content, &parsed); err != nil {
		log.Printf("Slot extraction returned unparseable output: %v", err)
		return nil
	}

	for k, v := range parsed {
		if v == nil {
			delete(parsed, k)
		}
	}
	if len(parsed) == 0 {
		return nil
	}
	return parsed
}

func (c *ExtractorClient) chatCompletion(ctx context.Context, req chatCompletionRequest) (*chatCompletionResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}

// extractionPrompt asks for strict JSON over the slot vocabulary. Fields
// the utterance does not mention must be null.
func extractionPrompt(questionContext, utterance string) string {
	return fmt.Sprintf(`You are an information extraction parser for a property valuation assistant.
The assistant last asked: %q
Read the user message and extract ONLY fields the user explicitly stated. Output null for everything else.
Return STRICT JSON with any of these keys:
{
  "building_name": string or null,
  "building_category": one of %s or null,
  "num_floors": integer or null,
  "has_basement": true/false or null,
  "has_elevator": true/false or null,
  "elevator_stops": integer or null,
  "is_under_construction": true/false or null,
  "num_sections": integer or null,
  "plot_area_sqm": number or null,
  "prop_town": one of %s or null,
  "gen_use": one of %s or null,
  "confirmed_grade": one of %s or null,
  "mcf": number or null,
  "pef": number or null,
  "fence_percent": number or null,
  "septic_percent": number or null,
  "external_works_percent": number or null,
  "water_tank_cost": number or null,
  "consultancy_percent": number or null,
  "remarks": string or null
}
User message: %q
Output ONLY JSON. No commentary.`,
		questionContext,
		quoteList(model.ValidCategories),
		quoteList(model.ValidTownClasses),
		quoteList(model.ValidUseTypes),
		quoteList(model.ValidGrades),
		utterance)
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
