// Package langflow calls the hosted Langflow flows that generate AI answers
// and macro recommendations. The service treats it as an opaque boundary:
// request in, text or parsed result out, failures bounded to typed errors.
package langflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
)

var (
	ErrNotConfigured = errors.New("langflow: application token not configured")
	ErrEmptyResult   = errors.New("langflow: empty result in flow response")
)

// Widget ids of the text inputs inside the ask flow. They are part of the
// flow definition, not of this deployment.
const (
	askQuestionInput = "TextInput-KG2ew"
	askProfileInput  = "TextInput-qDXMR"
)

type Options struct {
	BaseURL   string
	FlowAppID string // Langflow application id in the run URL
	OrgID     string
	Token     string
	AskFlow   string
	MacroFlow string
	Timeout   time.Duration
}

type Client struct {
	http      *http.Client
	baseURL   string
	flowAppID string
	orgID     string
	token     string
	askFlow   string
	macroFlow string
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   opts.BaseURL,
		flowAppID: opts.FlowAppID,
		orgID:     opts.OrgID,
		token:     opts.Token,
		askFlow:   opts.AskFlow,
		macroFlow: opts.MacroFlow,
	}
}

type tweak struct {
	InputValue string `json:"input_value"`
}

type runRequest struct {
	OutputType string           `json:"output_type"`
	InputType  string           `json:"input_type"`
	InputValue string           `json:"input_value,omitempty"`
	SessionID  string           `json:"session_id"`
	Tweaks     map[string]tweak `json:"tweaks,omitempty"`
}

type textPayload struct {
	Data struct {
		Text string `json:"text"`
	} `json:"data"`
}

type runResponse struct {
	Error   string `json:"error"`
	Outputs []struct {
		Outputs []struct {
			Results struct {
				Text    *textPayload `json:"text"`
				Message *textPayload `json:"message"`
			} `json:"results"`
		} `json:"outputs"`
	} `json:"outputs"`
}

// Ask runs the question flow with the visitor's profile as context and
// returns the AI's answer text.
func (c *Client) Ask(ctx context.Context, profileText, question string) (string, error) {
	req := runRequest{
		OutputType: "text",
		InputType:  "text",
		SessionID:  uuid.NewString(),
		Tweaks: map[string]tweak{
			askQuestionInput: {InputValue: question},
			askProfileInput:  {InputValue: profileText},
		},
	}
	return c.run(ctx, c.askFlow, req)
}

var jsonObjectRe = regexp.MustCompile(`\{[^{}]*\}`)

// Macros runs the macro-recommendation flow. When the reply cannot be
// parsed as a macro object the original application falls back to a fixed
// default set rather than failing; that behavior is kept.
func (c *Client) Macros(ctx context.Context, input string) (entity.Nutrition, error) {
	req := runRequest{
		OutputType: "chat",
		InputType:  "chat",
		InputValue: input,
		SessionID:  uuid.NewString(),
	}
	text, err := c.run(ctx, c.macroFlow, req)
	if err != nil {
		return entity.Nutrition{}, err
	}

	raw := text
	if m := jsonObjectRe.FindString(text); m != "" {
		raw = m
	}

	var n entity.Nutrition
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return entity.Nutrition{Calories: 2000, Protein: 140, Fat: 60, Carbs: 200}, nil
	}
	return n, nil
}

func (c *Client) run(ctx context.Context, flow string, payload runRequest) (string, error) {
	if c.token == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/lf/%s/api/v1/run/%s", c.baseURL, c.flowAppID, flow)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.orgID != "" {
		req.Header.Set("X-DataStax-Current-Org", c.orgID)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("langflow: run %s: %w", flow, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("langflow: run %s: unexpected status %d: %s", flow, res.StatusCode, bytes.TrimSpace(b))
	}

	var parsed runResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("langflow: run %s: decode response: %w", flow, err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("langflow: run %s: api error: %s", flow, parsed.Error)
	}
	if len(parsed.Outputs) == 0 || len(parsed.Outputs[0].Outputs) == 0 {
		return "", ErrEmptyResult
	}

	results := parsed.Outputs[0].Outputs[0].Results
	switch {
	case results.Text != nil:
		return results.Text.Data.Text, nil
	case results.Message != nil:
		return results.Message.Data.Text, nil
	default:
		return "", ErrEmptyResult
	}
}
