package suggest

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

	"github.com/cenkalti/backoff/v4"
	"github.com/existflow/awaree/internal/logger"
)

// DefaultBaseURL is the Gemini REST endpoint
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is used when the config leaves the model empty
const DefaultModel = "gemini-3-flash-preview"

const (
	maxRetries     = 2
	maxBodyBytes   = 1 << 20
	defaultTimeout = 20 * time.Second
)

// Config configures the Gemini suggester
type Config struct {
	Enabled       bool
	APIKey        string
	Model         string
	BaseURL       string
	Timeout       time.Duration
	RetryInterval time.Duration
}

// New returns a Gemini suggester, or Noop when suggestions are disabled or
// no key is set
func New(cfg Config) Suggester {
	if !cfg.Enabled || cfg.APIKey == "" {
		return Noop{}
	}
	return NewGemini(cfg)
}

// Gemini asks Google's Gemini API for task suggestions
type Gemini struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger
}

// NewGemini creates a Gemini suggester
func NewGemini(cfg Config) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	return &Gemini{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.WithFields(logger.F("component", "suggest"), logger.F("model", cfg.Model)),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

var taskSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"tasks": map[string]interface{}{
			"type":  "ARRAY",
			"items": map[string]interface{}{"type": "STRING"},
		},
	},
	"required": []string{"tasks"},
}

func prompt(projectName, subject string) string {
	return fmt.Sprintf("Propose une liste de 5 à 8 tâches essentielles pour un projet de graphisme nommé %q dont le sujet est %q. Réponds uniquement en JSON.", projectName, subject)
}

// Suggest asks Gemini for tasks. Failures are logged and yield an empty list.
func (g *Gemini) Suggest(ctx context.Context, projectName, subject string) []string {
	tasks, err := g.suggest(ctx, projectName, subject)
	if err != nil {
		g.log.Warn("task suggestions unavailable", logger.F("project", projectName), logger.F("err", err))
		return []string{}
	}
	return Clean(tasks)
}

func (g *Gemini) suggest(ctx context.Context, projectName, subject string) ([]string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt(projectName, subject)}}}},
		GenerationConfig: map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   taskSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var tasks []string
	op := func() error {
		var err error
		tasks, err = g.call(ctx, body)
		return err
	}
	notify := func(err error, wait time.Duration) {
		g.log.Debug("retrying suggestion request", logger.F("err", err), logger.F("wait", wait.String()))
	}
	if err := backoff.RetryNotify(op, g.newBackoff(ctx), notify); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (g *Gemini) newBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.RetryInterval
	b.MaxInterval = 8 * g.cfg.RetryInterval
	b.MaxElapsedTime = 2 * g.cfg.Timeout
	b.RandomizationFactor = 0.5
	b.Multiplier = 2.0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)
}

// call performs one request. Client errors are permanent; network errors,
// rate limits and server errors are retried.
func (g *Gemini) call(ctx context.Context, body []byte) ([]string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, backoff.Permanent(err)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var gr geminiResponse
	jsonErr := json.Unmarshal(data, &gr)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if jsonErr == nil && gr.Error != nil {
			msg = fmt.Sprintf("%s: %s", gr.Error.Status, gr.Error.Message)
		}
		err := fmt.Errorf("gemini: %s", msg)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	if jsonErr != nil {
		return nil, backoff.Permanent(fmt.Errorf("parsing response JSON: %w", jsonErr))
	}

	var text strings.Builder
	if len(gr.Candidates) > 0 {
		for _, part := range gr.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return nil, backoff.Permanent(errors.New("gemini: empty response"))
	}

	var out struct {
		Tasks []string `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(text.String()), &out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("gemini: response is not a task list: %w", err))
	}
	return out.Tasks, nil
}
