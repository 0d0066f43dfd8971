package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/regionews/internal/models"
	"github.com/go-resty/resty/v2"
)

// DefaultGeminiBaseURL is the public Gemini REST endpoint
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GenerateRequest is one call to the generative model.
type GenerateRequest struct {
	SystemInstruction string
	Prompt            string
	SearchGrounding   bool
}

// GenerateResult is the model's free text plus any grounding citations.
type GenerateResult struct {
	Text      string
	Citations []models.Citation
}

// Generator is the remote generative capability.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	HasCredential() bool
}

type GeminiClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type geminiRequest struct {
	SystemInstruction *geminiContent `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason      string `json:"finishReason"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *geminiAPIError `json:"error"`
}

type geminiAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type geminiErrorBody struct {
	Error *geminiAPIError `json:"error"`
}

// NewGeminiClient creates a client for model. An empty baseURL selects the public endpoint.
func NewGeminiClient(apiKey, model, baseURL string, timeout time.Duration) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	return &GeminiClient{
		client:  resty.New().SetTimeout(timeout),
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// HasCredential reports whether an API key is configured
func (g *GeminiClient) HasCredential() bool {
	return strings.TrimSpace(g.apiKey) != ""
}

// Generate calls generateContent once and returns the joined text of the first candidate
func (g *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)

	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: req.Prompt}},
		}},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}
	if req.SearchGrounding {
		body.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}

	var result geminiResponse
	var apiErr geminiErrorBody
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	if resp.IsError() {
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error: unexpected status %d", resp.StatusCode())
	}

	if result.Error != nil {
		return nil, fmt.Errorf("API error: %s", result.Error.Message)
	}

	if len(result.Candidates) == 0 {
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := result.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	out := &GenerateResult{Text: text.String()}
	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			out.Citations = append(out.Citations, models.Citation{
				Address: chunk.Web.URI,
				Title:   chunk.Web.Title,
			})
		}
	}

	return out, nil
}
