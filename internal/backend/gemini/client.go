// Package gemini implements the service.Assistant interface using the
// Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"techlead/internal/config"
	"techlead/internal/service"
)

// APITimeout bounds a single generation request.
const APITimeout = 60 * time.Second

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = fmt.Errorf("%w: no assistant API key (set GEMINI_API_KEY or api_key in config.yaml)", config.ErrNotConfigured)

// Client implements service.Assistant.
type Client struct {
	models *genai.Models
	model  string
	log    zerolog.Logger

	// now supplies the reference date for relative deadlines.
	now func() time.Time
}

var _ service.Assistant = (*Client)(nil)

// New creates a client from the configured model and API key.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.Settings.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	c, err := NewWithOptions(ctx, cfg.Settings.Model, genai.ClientConfig{
		APIKey:  cfg.Settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c.log = cfg.Log.With().Str("backend", "gemini").Logger()
	return c, nil
}

// NewWithOptions creates a client from an explicit SDK configuration
// (for testing, set HTTPOptions.BaseURL).
func NewWithOptions(ctx context.Context, model string, cc genai.ClientConfig) (*Client, error) {
	if model == "" {
		model = config.DefaultModel
	}
	if cc.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	sdk, err := genai.NewClient(ctx, &cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{
		models: sdk.Models,
		model:  model,
		log:    zerolog.Nop(),
		now:    time.Now,
	}, nil
}

// CreateTask extracts a task record from a natural-language description.
func (c *Client) CreateTask(ctx context.Context, in service.CreateTaskInput) (service.CreateTaskOutput, error) {
	prompt, err := createPrompt(in, c.now().Format(DateLayout))
	if err != nil {
		return service.CreateTaskOutput{}, err
	}
	text, err := c.generate(ctx, prompt, createSchema)
	if err != nil {
		return service.CreateTaskOutput{}, err
	}
	var out service.CreateTaskOutput
	if err := decodeJSON(text, &out); err != nil {
		return service.CreateTaskOutput{}, err
	}
	return out, nil
}

// UpdateTaskStatus normalises a requested status change.
func (c *Client) UpdateTaskStatus(ctx context.Context, in service.StatusUpdateInput) (service.StatusUpdateOutput, error) {
	prompt, err := statusPrompt(in)
	if err != nil {
		return service.StatusUpdateOutput{}, err
	}
	text, err := c.generate(ctx, prompt, statusSchema)
	if err != nil {
		return service.StatusUpdateOutput{}, err
	}
	var out service.StatusUpdateOutput
	if err := decodeJSON(text, &out); err != nil {
		return service.StatusUpdateOutput{}, err
	}
	return out, nil
}

// AnalyzeTasks answers a free-form request about the task list.
func (c *Client) AnalyzeTasks(ctx context.Context, in service.AnalysisInput) (service.AnalysisOutput, error) {
	prompt, err := analysisPrompt(in)
	if err != nil {
		return service.AnalysisOutput{}, err
	}
	text, err := c.generate(ctx, prompt, nil)
	if err != nil {
		return service.AnalysisOutput{}, err
	}
	return service.AnalysisOutput{AnalysisResult: text}, nil
}

// generate sends one user turn. With a schema, the model is asked for JSON.
func (c *Client) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var gc *genai.GenerateContentConfig
	if schema != nil {
		gc = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		}
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), gc)
	if err != nil {
		return "", wrapError(err)
	}
	c.log.Debug().Str("model", c.model).Dur("elapsed", time.Since(start)).Msg("generated content")

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("model returned no candidates")
	}

	cand := resp.Candidates[0]
	var b strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			b.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		if cand.FinishReason != "" && cand.FinishReason != genai.FinishReasonStop {
			return "", fmt.Errorf("model stopped without output: %s", cand.FinishReason)
		}
		return "", errors.New("model returned empty response")
	}
	return text, nil
}

// decodeJSON parses a JSON answer, tolerating a surrounding code fence.
func decodeJSON(text string, v any) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return nil
}

func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("assistant request timed out: %w", err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("assistant rejected the API key: %s", apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("assistant quota exceeded: %s", apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("unknown model: %s", apiErr.Message)
		}
	}
	return err
}

// Disabled is an Assistant whose every call fails with Err. It stands in
// when no API key is configured so that store-only commands keep working.
type Disabled struct {
	Err error
}

var _ service.Assistant = Disabled{}

func (d Disabled) CreateTask(context.Context, service.CreateTaskInput) (service.CreateTaskOutput, error) {
	return service.CreateTaskOutput{}, d.Err
}

func (d Disabled) UpdateTaskStatus(context.Context, service.StatusUpdateInput) (service.StatusUpdateOutput, error) {
	return service.StatusUpdateOutput{}, d.Err
}

func (d Disabled) AnalyzeTasks(context.Context, service.AnalysisInput) (service.AnalysisOutput, error) {
	return service.AnalysisOutput{}, d.Err
}
