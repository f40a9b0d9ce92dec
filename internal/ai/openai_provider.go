package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fdg312/skin-hub/internal/config"
)

const systemPrompt = "You are a dermatology-informed skincare assistant. " +
	"Reply with a single JSON object and nothing else, shaped as " +
	`{"recommendations":["..."],"natural_remedies":["..."],"product_recommendations":["..."]}. ` +
	"recommendations holds exactly 4 short sentences in the order the user asks for. " +
	"natural_remedies repeats the two natural remedies and product_recommendations repeats the two product suggestions. " +
	"Only topical skincare. Never give sleep, hydration or diet advice."

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewOpenAIProvider(cfg config.AIConfig) *OpenAIProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(cfg.OpenAIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		baseURL:     baseURL,
		maxTokens:   cfg.MaxOutputTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *OpenAIProvider) Name() string { return config.AIModeOpenAI }

func (p *OpenAIProvider) Recommend(ctx context.Context, req RecommendRequest) (RecommendResponse, error) {
	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []chatMessageRequest{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return RecommendResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return RecommendResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return RecommendResponse{}, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return RecommendResponse{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RecommendResponse{}, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return RecommendResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return RecommendResponse{}, fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}

	out, err := decodeRecommendations(parsed.Choices[0].Message.Content)
	if err != nil {
		return RecommendResponse{}, err
	}
	out.Model = parsed.Model
	if out.Model == "" {
		out.Model = p.model
	}
	return out, nil
}

// decodeRecommendations parses the assistant content. Models sometimes wrap
// the object in a markdown fence even in JSON mode.
func decodeRecommendations(content string) (RecommendResponse, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if content == "" {
		return RecommendResponse{}, ErrEmptyResponse
	}

	var payload recommendationPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return RecommendResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := RecommendResponse{
		Recommendations:        cleanList(payload.Recommendations),
		NaturalRemedies:        cleanList(payload.NaturalRemedies),
		ProductRecommendations: cleanList(payload.ProductRecommendations),
		LifestyleTip:           strings.TrimSpace(payload.LifestyleTip),
	}
	if len(out.Recommendations) == 0 {
		return RecommendResponse{}, ErrEmptyResponse
	}
	return out, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type recommendationPayload struct {
	Recommendations        []string `json:"recommendations"`
	NaturalRemedies        []string `json:"natural_remedies"`
	ProductRecommendations []string `json:"product_recommendations"`
	LifestyleTip           string   `json:"lifestyle_tip"`
}

type chatCompletionsRequest struct {
	Model          string               `json:"model"`
	Messages       []chatMessageRequest `json:"messages"`
	Temperature    float64              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens"`
	ResponseFormat *responseFormat      `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
