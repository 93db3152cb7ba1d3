// Package summary proxies article summarization to a hosted workflow API
// (Dify-style). The service holds the API credentials; browsers never talk to
// the workflow endpoint directly.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/inkstream/inkstream/pkg/config"
	"github.com/inkstream/inkstream/pkg/logging"
	"github.com/inkstream/inkstream/pkg/telemetry"
)

// ErrEmptyContent is returned when the article has no text to summarize
var ErrEmptyContent = errors.New("article content is empty")

// maxInputRunes caps how much article text is sent to the workflow
const maxInputRunes = 8000

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// Client calls the summarization workflow
type Client struct {
	baseURL    string
	apiKey     string
	workflowID string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new summarization client
func New(cfg *config.SummaryConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		workflowID: cfg.WorkflowID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logging.WithComponent("summary-client"),
	}
}

type runRequest struct {
	WorkflowID   string            `json:"workflow_id"`
	Inputs       map[string]string `json:"inputs"`
	ResponseMode string            `json:"response_mode"`
	User         string            `json:"user"`
}

type runResponse struct {
	Data struct {
		Outputs map[string]interface{} `json:"outputs"`
	} `json:"data"`
	Answer  string `json:"answer"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

// Summarize sends the article text through the workflow and returns the
// summary. HTML markup is stripped and overlong content truncated before
// sending.
func (c *Client) Summarize(ctx context.Context, title, content string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "summary.summarize")
	defer span.End()

	text := strings.TrimSpace(htmlTagRe.ReplaceAllString(content, ""))
	if text == "" {
		return "", ErrEmptyContent
	}
	if runes := []rune(text); len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes]) + "..."
	}

	body, err := json.Marshal(runRequest{
		WorkflowID:   c.workflowID,
		Inputs:       map[string]string{"text": text, "title": title},
		ResponseMode: "blocking",
		User:         "inkstream",
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode workflow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/workflows/run", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build workflow request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed runResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode workflow response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Message
		if msg == "" {
			msg = resp.Status
		}
		c.logger.Warn("workflow call rejected",
			zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return "", fmt.Errorf("workflow call failed: %s", msg)
	}

	return extractSummary(&parsed)
}

// extractSummary tolerates the known response layouts: the declared "result"
// output, any single output, a top-level answer, or a top-level result.
func extractSummary(resp *runResponse) (string, error) {
	if outputs := resp.Data.Outputs; len(outputs) > 0 {
		if result, ok := outputs["result"].(string); ok && result != "" {
			return result, nil
		}
		for _, v := range outputs {
			if s, ok := v.(string); ok && s != "" {
				return s, nil
			}
		}
	}
	if resp.Answer != "" {
		return resp.Answer, nil
	}
	if resp.Result != "" {
		return resp.Result, nil
	}
	return "", fmt.Errorf("unexpected workflow response format")
}
