// Package masa is a client for the MASA data API: an asynchronous, job-based
// Twitter search service with a companion sentiment-analysis endpoint.
//
// Search is a three-step protocol: create a job, poll its status until it
// reaches done, then fetch the results. The service pushes nothing, so a
// bounded fixed-interval poll is the only completion mechanism.
package masa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sentibot/pkg/logx"
	"sentibot/pkg/prompt"
)

// Config holds MASA credentials and polling policy, sourced from the
// environment. Two deployments of the upstream service have been observed
// with different poll budgets (30x2s and 10x5s), so both knobs are
// configurable rather than baked in.
type Config struct {
	BaseURL      string        `envconfig:"MASA_BASE_URL" default:"https://data.dev.masalabs.ai"`
	APIKey       string        `envconfig:"MASA_DATA_API_KEY" required:"true"`
	PollAttempts int           `envconfig:"MASA_POLL_ATTEMPTS" default:"30"`
	PollInterval time.Duration `envconfig:"MASA_POLL_INTERVAL" default:"2s"`
	HTTPTimeout  time.Duration `envconfig:"MASA_HTTP_TIMEOUT" default:"30s"`
}

// Client issues authenticated calls against the MASA data API.
type Client struct {
	baseURL      string
	apiKey       string
	pollAttempts int
	pollInterval time.Duration
	httpClient   *http.Client
	log          zerolog.Logger
}

// New builds a Client from the config.
func (c Config) New() *Client {
	return &Client{
		baseURL:      strings.TrimRight(c.BaseURL, "/"),
		apiKey:       c.APIKey,
		pollAttempts: c.PollAttempts,
		pollInterval: c.PollInterval,
		httpClient:   &http.Client{Timeout: c.HTTPTimeout},
		log:          logx.Component("masa"),
	}
}

// JobState is the normalized lifecycle state of a search job. The upstream
// status vocabulary varies between deployments ("done" vs "completed",
// "failed" vs "error"); everything else counts as still pending.
type JobState int

const (
	StatePending JobState = iota
	StateDone
	StateFailed
)

// JobStatus is one observation of a remote job.
type JobStatus struct {
	State  JobState
	Reason string // raw upstream status when State is StateFailed
}

func parseStatus(raw string) JobStatus {
	switch strings.ToLower(raw) {
	case "done", "completed":
		return JobStatus{State: StateDone}
	case "failed", "error":
		return JobStatus{State: StateFailed, Reason: raw}
	default:
		return JobStatus{State: StatePending}
	}
}

// Tweet is one search result record. Deployments disagree on the field name
// for the tweet body (Content vs text), so decoding normalizes both onto
// Content.
type Tweet struct {
	Content string `json:"content"`
}

func (t *Tweet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content string `json:"Content"`
		Text    string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Content = raw.Content
	if t.Content == "" {
		t.Content = raw.Text
	}
	return nil
}

// CreateSearchJob starts a live Twitter search and returns the job id that
// all subsequent status and result calls must use.
func (c *Client) CreateSearchJob(ctx context.Context, query string, maxResults int) (string, error) {
	body := map[string]any{"query": query, "max_results": maxResults}
	var resp struct {
		UUID string `json:"uuid"`
	}
	if err := c.post(ctx, "create search job", "/api/v1/search/live/twitter", body, &resp); err != nil {
		return "", err
	}
	if resp.UUID == "" {
		return "", &APIError{Op: "create search job", Detail: "response contains no job uuid"}
	}
	c.log.Debug().Str("job_id", resp.UUID).Str("query", query).Msg("search job created")
	return resp.UUID, nil
}

// JobStatus fetches the current state of a job. One HTTP GET, no retries.
func (c *Client) JobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	var resp struct {
		Status string `json:"status"`
	}
	err := c.get(ctx, "poll job status", "/api/v1/search/live/twitter/status/"+jobID, &resp)
	if err != nil {
		return JobStatus{}, err
	}
	return parseStatus(resp.Status), nil
}

// SearchResults fetches the result records of a job. Safe to call more than
// once after the job is done.
func (c *Client) SearchResults(ctx context.Context, jobID string) ([]Tweet, error) {
	var tweets []Tweet
	if err := c.get(ctx, "fetch job results", "/api/v1/search/live/twitter/result/"+jobID, &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

// WaitForJob polls the job until it is done, sleeping the configured
// interval between attempts. It returns a *JobFailedError as soon as a
// failed state is observed and a *PollTimeoutError once the attempt budget
// is exhausted, so a stalled remote job can never block the caller forever.
func (c *Client) WaitForJob(ctx context.Context, jobID string) error {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		status, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return err
		}
		switch status.State {
		case StateDone:
			c.log.Debug().Str("job_id", jobID).Int("polls", attempt+1).Msg("job done")
			return nil
		case StateFailed:
			return &JobFailedError{JobID: jobID, Reason: status.Reason}
		}
		if attempt == c.pollAttempts-1 {
			break
		}
		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return &PollTimeoutError{JobID: jobID, Attempts: c.pollAttempts}
}

var analysisPrompt = prompt.NewTemplate(
	"Analyze sentiment for {{subject}} from these tweets. Provide:\n" +
		"1. Overall sentiment (positive/negative/neutral)\n" +
		"2. Sentiment percentage breakdown\n" +
		"3. Key positive/negative themes\n" +
		"4. Notable emotional indicators")

// AnalyzeSentiment submits the tweet texts for sentiment analysis of the
// named subject and returns the free-form analysis text.
func (c *Client) AnalyzeSentiment(ctx context.Context, texts []string, subject string) (string, error) {
	body := map[string]any{
		"tweets": strings.Join(texts, "\n"),
		"prompt": analysisPrompt.Render(map[string]any{"subject": subject}),
	}
	var resp struct {
		Result   string `json:"result"`
		Analysis string `json:"analysis"`
	}
	if err := c.post(ctx, "analyze sentiment", "/api/v1/search/analysis", body, &resp); err != nil {
		return "", err
	}
	out := resp.Result
	if out == "" {
		out = resp.Analysis
	}
	if out == "" {
		return "", &APIError{Op: "analyze sentiment", Detail: "response contains no result"}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, op, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("masa: %s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("masa: %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, out)
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("masa: %s: %w", op, err)
	}
	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("masa: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Op: op, Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Detail: "decode response: " + err.Error()}
	}
	return nil
}
