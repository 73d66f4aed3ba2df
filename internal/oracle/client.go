package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// ClaudeAPIEndpoint is the Anthropic API endpoint.
	ClaudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeModel is the default model.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeAPIVersion is the API version.
	ClaudeAPIVersion = "2023-06-01"
)

// Evaluation is the oracle's verdict on a free-text answer.
type Evaluation struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Client grades free-text answers through the Anthropic API.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = ClaudeModel
	}
	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: ClaudeAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

type claudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Evaluate asks the model to score answerText against the question and
// rubric. The returned score is validated by the caller against the
// question's maximum points.
func (c *Client) Evaluate(ctx context.Context, questionText, answerText string, maxPoints int, rubric string) (evaluation Evaluation, err error) {
	prompt := buildEvaluationPrompt(questionText, answerText, maxPoints, rubric)

	var responseText string
	responseText, err = c.sendRequest(ctx, prompt)
	if err != nil {
		err = errors.Wrap(err, "evaluation request failed")
		return evaluation, err
	}

	cleanedText := stripMarkdownCodeFences(responseText)

	err = json.Unmarshal([]byte(cleanedText), &evaluation)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse evaluation response: %s", responseText)
		return evaluation, err
	}

	return evaluation, err
}

func (c *Client) sendRequest(ctx context.Context, prompt string) (responseText string, err error) {
	claudeReq := claudeRequest{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(claudeReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", ClaudeAPIVersion)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return responseText, err
	}

	var claudeResp claudeResponse
	err = json.Unmarshal(respBody, &claudeResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Claude response: %s", string(respBody))
		return responseText, err
	}

	if len(claudeResp.Content) == 0 {
		err = errors.New("no content in Claude response")
		return responseText, err
	}

	responseText = claudeResp.Content[0].Text

	return responseText, err
}

func buildEvaluationPrompt(questionText, answerText string, maxPoints int, rubric string) string {
	return fmt.Sprintf(`You are grading one free-text answer from a recruitment test.

QUESTION:
%s

GRADING RUBRIC:
%s

CANDIDATE ANSWER:
%s

Score the answer from 0 to %d points against the rubric. Partial credit is
allowed. Be consistent: the same answer must always receive the same score.

Return ONLY valid JSON in this format (no markdown, no commentary):
{
  "score": <number between 0 and %d>,
  "explanation": "<one or two sentences justifying the score>"
}`,
		questionText,
		rubric,
		answerText,
		maxPoints,
		maxPoints,
	)
}

// stripMarkdownCodeFences removes markdown code fences from JSON responses.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = text

	if len(cleaned) > 7 && cleaned[:7] == "```json" {
		start := 7
		for start < len(cleaned) && cleaned[start] != '\n' {
			start++
		}
		start++

		end := len(cleaned)
		if end > 3 && cleaned[end-3:] == "```" {
			end -= 3
		}

		for end > 0 && (cleaned[end-1] == '\n' || cleaned[end-1] == ' ' || cleaned[end-1] == '\r') {
			end--
		}

		cleaned = cleaned[start:end]
	}

	return cleaned
}
