package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/version"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-3-flash-preview"

// ContentGenerator is the subset of *genai.Models used by GeminiClient
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures the Gemini-backed analyzer
type GeminiConfig struct {
	APIKey  string
	Model   string // Defaults to DefaultModel
	BaseURL string // Optional API endpoint override (proxies, tests)
}

// GeminiClient analyzes photos with a single Gemini GenerateContent call
type GeminiClient struct {
	generator ContentGenerator
	model     string
}

// NewGeminiClient creates a client backed by the Gemini Developer API
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	headers := http.Header{}
	headers.Set("User-Agent", version.UserAgent())

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
			Headers: headers,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewGeminiClientWithGenerator(client.Models, cfg.Model), nil
}

// NewGeminiClientWithGenerator wires an existing generator, mainly for tests
func NewGeminiClientWithGenerator(generator ContentGenerator, model string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{
		generator: generator,
		model:     model,
	}
}

// Model returns the configured model identifier
func (c *GeminiClient) Model() string {
	return c.model
}

// Analyze sends the photo with the fixed prompt and schema and parses the reply.
// Exactly one remote call is made; there are no retries.
func (c *GeminiClient) Analyze(ctx context.Context, img Image) (*Result, error) {
	if len(img.Data) == 0 {
		return nil, NewUnexpectedError("image payload is empty", nil)
	}

	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, mimeType),
			genai.NewPartFromText(Prompt),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	}

	logging.LogAnalysisRequest(c.model, mimeType, len(img.Data))
	start := time.Now()

	resp, err := c.generator.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		err = classifyCallError(err)
		logging.LogAnalysisResponse(c.model, time.Since(start), err)
		return nil, err
	}

	if resp == nil {
		err = NewMalformedError("empty response", nil)
		logging.LogAnalysisResponse(c.model, time.Since(start), err)
		return nil, err
	}

	result, err := ParseResult(resp.Text())
	logging.LogAnalysisResponse(c.model, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// classifyCallError wraps a failed GenerateContent call
func classifyCallError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewTransportError("request timed out", err)
	case errors.Is(err, context.Canceled):
		return NewTransportError("request cancelled", err)
	default:
		return NewTransportError("analysis service call failed", err)
	}
}
