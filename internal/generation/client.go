// Package generation calls the chat-completions gateway that writes and rewrites résumé
// content.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"resumeKit/internal/config"
	"resumeKit/internal/resume"
)

// MinInputLength is the shortest raw résumé or job description accepted.
const MinInputLength = 50

var (
	ErrTooShort         = errors.New("input too short")
	ErrRateLimited      = errors.New("generation rate limit exceeded")
	ErrPaymentRequired  = errors.New("generation credits exhausted")
	ErrInvalidResponse  = errors.New("invalid generation response")
	ErrNotConfigured    = errors.New("generation api key is not configured")
	errUpstreamRejected = errors.New("generation request failed")
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client from cfg. A missing API key is reported on first use so that
// the API can start without the gateway.
func NewClient(cfg config.GenerationConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "generation")),
	}
}

// Improved is a rewritten résumé with a short list of what changed.
type Improved struct {
	Resume       resume.Document `json:"improvedResume"`
	Improvements []string        `json:"improvements"`
}

// MatchAnalysis compares a résumé with a job description.
type MatchAnalysis struct {
	MatchScore      int      `json:"matchScore"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
	Strengths       []string `json:"strengths"`
}

// Tailored is a résumé adjusted to one job description.
type Tailored struct {
	Resume   resume.Document `json:"tailoredResume"`
	Analysis MatchAnalysis   `json:"matchAnalysis"`
}

// Generate polishes form input. Only the summary, experiences and projects are rewritten;
// every other field comes from the form unchanged.
func (c *Client) Generate(ctx context.Context, form resume.FormInput) (resume.Document, error) {
	fallback := form.Fallback()
	formJSON, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return resume.Document{}, fmt.Errorf("marshal form: %w", err)
	}

	var enhanced struct {
		Summary     string              `json:"summary"`
		Experiences []resume.Experience `json:"experiences"`
		Projects    []resume.Project    `json:"projects"`
	}
	if err := c.complete(ctx, enhancePrompt, "Résumé details:\n"+string(formJSON), enhanceSchema, &enhanced); err != nil {
		return resume.Document{}, err
	}

	doc := fallback
	if strings.TrimSpace(enhanced.Summary) != "" {
		doc.Summary = enhanced.Summary
	}
	if len(enhanced.Experiences) > 0 {
		doc.Experiences = enhanced.Experiences
	}
	if len(enhanced.Projects) > 0 {
		doc.Projects = enhanced.Projects
	}
	doc.Normalize()
	return doc, nil
}

// Rewrite turns free résumé text into a structured, improved document.
func (c *Client) Rewrite(ctx context.Context, rawText string) (Improved, error) {
	rawText = strings.TrimSpace(rawText)
	if len([]rune(rawText)) < MinInputLength {
		return Improved{}, fmt.Errorf("%w: provide at least %d characters of résumé text", ErrTooShort, MinInputLength)
	}

	var out struct {
		resume.Document
		Improvements []string `json:"improvements"`
	}
	if err := c.complete(ctx, improvePrompt, "Résumé text:\n"+rawText, improveSchema, &out); err != nil {
		return Improved{}, err
	}
	out.Document.Normalize()
	return Improved{Resume: out.Document, Improvements: out.Improvements}, nil
}

// Tailor adjusts doc to jobDescription and scores the match.
func (c *Client) Tailor(ctx context.Context, doc resume.Document, jobDescription string) (Tailored, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if len([]rune(jobDescription)) < MinInputLength {
		return Tailored{}, fmt.Errorf("%w: provide a more detailed job description", ErrTooShort)
	}
	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Tailored{}, fmt.Errorf("marshal resume: %w", err)
	}

	user := "Job description:\n" + jobDescription + "\n\nCurrent résumé:\n" + string(docJSON)
	var out Tailored
	if err := c.complete(ctx, tailorPrompt, user, tailorSchema, &out); err != nil {
		return Tailored{}, err
	}
	out.Resume.Normalize()
	return out, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete sends one system+user exchange, validates the JSON answer against schema and
// decodes it into out.
func (c *Client) complete(ctx context.Context, system, user string, schema *responseSchema, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errUpstreamRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read chat response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return ErrPaymentRequired
	case resp.StatusCode >= 300:
		c.logger.Error("gateway returned an error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), 512)),
		)
		return fmt.Errorf("%w: status %d", errUpstreamRejected, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}

	content := []byte(unfence(parsed.Choices[0].Message.Content))
	if err := schema.validate(content); err != nil {
		c.logger.Warn("generation response rejected", slog.Any("error", err))
		return err
	}
	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// IsUpstream reports whether err came from the gateway rather than from the caller's input.
func IsUpstream(err error) bool {
	return errors.Is(err, errUpstreamRejected) || errors.Is(err, ErrInvalidResponse)
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// unfence strips a markdown code fence around the model's JSON, if present.
func unfence(content string) string {
	if m := fencePattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
