// Package language is a typed client for the Language service
// analyze-text REST API: language detection, sentiment with opinion
// mining, key phrases, entity recognition, and summarization jobs.
package language

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

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"cognikit/internal/retry"
	"cognikit/internal/stats"
)

const (
	apiVersion = "2023-04-01"

	// Documents beyond this are truncated before analysis.
	MaxDocumentLength = 5000
)

var (
	ErrMissingCredentials = errors.New("language: endpoint and key are required")
	ErrEmptyInput         = errors.New("language: input text cannot be empty")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("language: api error %d (%s): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) HTTPStatus() int { return e.Status }

// Client talks to one Language resource. A single underlying HTTP
// client is reused for the lifetime of the Client.
type Client struct {
	endpoint     string
	key          string
	httpClient   *http.Client
	logger       zerolog.Logger
	retryCfg     retry.Config
	limiter      *rate.Limiter
	workers      int
	pollInterval time.Duration
	tracker      *stats.Tracker
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retryCfg = cfg }
}

// WithBatchWorkers caps concurrent requests during batch processing.
func WithBatchWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithPollInterval sets the delay between summarization job polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

func New(endpoint, key string, opts ...Option) (*Client, error) {
	if endpoint == "" || key == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		endpoint:     strings.TrimRight(endpoint, "/"),
		key:          key,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		logger:       zerolog.Nop(),
		retryCfg:     retry.DefaultConfig(),
		limiter:      rate.NewLimiter(rate.Limit(10), 5),
		workers:      5,
		pollInterval: 2 * time.Second,
		tracker:      &stats.Tracker{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Stats reports the request counters accumulated by this client.
func (c *Client) Stats() stats.Snapshot {
	return c.tracker.Snapshot()
}

func (c *Client) analyzeTextURL() string {
	return fmt.Sprintf("%s/language/:analyze-text?api-version=%s", c.endpoint, apiVersion)
}

// roundTrip performs one HTTP exchange and decodes the body into out
// when provided. The response headers are returned for job submissions,
// which carry their result location in Operation-Location.
func (c *Client) roundTrip(ctx context.Context, method, url string, body, out any) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("language: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("language: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("language: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("language: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("language: failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var wire struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: status, Code: "Unknown", Message: http.StatusText(status)}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error.Message != "" {
		apiErr.Code = wire.Error.Code
		apiErr.Message = wire.Error.Message
	}
	return apiErr
}

func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return ErrEmptyInput
	}
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return ErrEmptyInput
		}
	}
	return nil
}

func truncate(text string) string {
	if len(text) > MaxDocumentLength {
		return text[:MaxDocumentLength]
	}
	return text
}

func totalChars(texts []string) int {
	n := 0
	for _, t := range texts {
		n += len(t)
	}
	return n
}

// analyze runs one analyze-text call through the shared retry policy
// and records the outcome.
func (c *Client) analyze(ctx context.Context, op string, req *analyzeTextRequest, out any) error {
	start := time.Now()
	err := retry.Do(ctx, c.logger, op, c.retryCfg, func() error {
		_, rtErr := c.roundTrip(ctx, http.MethodPost, c.analyzeTextURL(), req, out)
		return rtErr
	})
	chars := 0
	for _, d := range req.AnalysisInput.Documents {
		chars += len(d.Text)
	}
	c.tracker.Record(chars, time.Since(start), err == nil)
	return err
}

func newAnalyzeTextRequest(kind string, params any, texts []string) *analyzeTextRequest {
	req := &analyzeTextRequest{Kind: kind, Parameters: params}
	for i, t := range texts {
		req.AnalysisInput.Documents = append(req.AnalysisInput.Documents, document{
			ID:   fmt.Sprintf("%d", i+1),
			Text: truncate(t),
		})
	}
	return req
}

// DetectLanguage identifies the primary language of each text.
func (c *Client) DetectLanguage(ctx context.Context, texts []string) ([]Detection, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	var resp detectResponse
	req := newAnalyzeTextRequest("LanguageDetection", nil, texts)
	if err := c.analyze(ctx, "detect_language", req, &resp); err != nil {
		return nil, err
	}

	byID := map[string]*Detection{}
	results := make([]Detection, len(texts))
	for i := range texts {
		results[i] = Detection{Text: texts[i], Language: "unknown"}
		byID[fmt.Sprintf("%d", i+1)] = &results[i]
	}
	for _, doc := range resp.Results.Documents {
		if d, ok := byID[doc.ID]; ok {
			d.Language = doc.DetectedLanguage.Name
			d.Code = doc.DetectedLanguage.Iso6391Name
			d.Confidence = doc.DetectedLanguage.ConfidenceScore
			d.Warnings = warningMessages(doc.Warnings)
		}
	}
	for _, e := range resp.Results.Errors {
		if d, ok := byID[e.ID]; ok {
			d.Error = e.Error.Message
		}
	}
	return results, nil
}

// AnalyzeSentiment scores each text as positive/neutral/negative/mixed.
// With opinionMining, per-sentence targets and assessments are
// collected into the document result.
func (c *Client) AnalyzeSentiment(ctx context.Context, texts []string, opinionMining bool) ([]SentimentResult, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	var resp sentimentResponse
	params := map[string]bool{"opinionMining": opinionMining}
	req := newAnalyzeTextRequest("SentimentAnalysis", params, texts)
	if err := c.analyze(ctx, "analyze_sentiment", req, &resp); err != nil {
		return nil, err
	}

	byID := map[string]*SentimentResult{}
	results := make([]SentimentResult, len(texts))
	for i := range texts {
		results[i] = SentimentResult{Text: texts[i], Sentiment: "error"}
		byID[fmt.Sprintf("%d", i+1)] = &results[i]
	}
	for _, doc := range resp.Results.Documents {
		r, ok := byID[doc.ID]
		if !ok {
			continue
		}
		r.Sentiment = doc.Sentiment
		r.Scores = doc.ConfidenceScores
		r.OverallConfidence = maxScore(doc.ConfidenceScores)
		for _, sentence := range doc.Sentences {
			for _, t := range sentence.Targets {
				r.Targets = append(r.Targets, Opinion{
					Text:      t.Text,
					Sentiment: t.Sentiment,
					Positive:  t.ConfidenceScores.Positive,
					Negative:  t.ConfidenceScores.Negative,
					Offset:    t.Offset,
					Length:    t.Length,
				})
			}
			for _, a := range sentence.Assessments {
				r.Assessments = append(r.Assessments, Assessment{
					Opinion: Opinion{
						Text:      a.Text,
						Sentiment: a.Sentiment,
						Positive:  a.ConfidenceScores.Positive,
						Negative:  a.ConfidenceScores.Negative,
						Offset:    a.Offset,
						Length:    a.Length,
					},
					IsNegated: a.IsNegated,
				})
			}
		}
	}
	return results, nil
}

// ExtractKeyPhrases pulls the main talking points out of each text.
func (c *Client) ExtractKeyPhrases(ctx context.Context, texts []string) ([]KeyPhraseResult, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	var resp keyPhraseResponse
	req := newAnalyzeTextRequest("KeyPhraseExtraction", nil, texts)
	if err := c.analyze(ctx, "extract_key_phrases", req, &resp); err != nil {
		return nil, err
	}

	results := make([]KeyPhraseResult, len(texts))
	byID := map[string]*KeyPhraseResult{}
	for i := range texts {
		results[i] = KeyPhraseResult{Text: texts[i]}
		byID[fmt.Sprintf("%d", i+1)] = &results[i]
	}
	for _, doc := range resp.Results.Documents {
		if r, ok := byID[doc.ID]; ok {
			r.Phrases = doc.KeyPhrases
			r.Warnings = warningMessages(doc.Warnings)
		}
	}
	return results, nil
}

// RecognizeEntities finds named entities (people, places, dates, ...)
// in each text.
func (c *Client) RecognizeEntities(ctx context.Context, texts []string) ([]EntityResult, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}

	var resp entityResponse
	req := newAnalyzeTextRequest("EntityRecognition", nil, texts)
	if err := c.analyze(ctx, "recognize_entities", req, &resp); err != nil {
		return nil, err
	}

	results := make([]EntityResult, len(texts))
	byID := map[string]*EntityResult{}
	for i := range texts {
		results[i] = EntityResult{Text: texts[i]}
		byID[fmt.Sprintf("%d", i+1)] = &results[i]
	}
	for _, doc := range resp.Results.Documents {
		r, ok := byID[doc.ID]
		if !ok {
			continue
		}
		for _, e := range doc.Entities {
			r.Entities = append(r.Entities, Entity{
				Text:        e.Text,
				Category:    e.Category,
				Subcategory: e.Subcategory,
				Confidence:  e.ConfidenceScore,
				Offset:      e.Offset,
				Length:      e.Length,
			})
		}
	}
	return results, nil
}

// Analyze combines detection, sentiment, key phrases, and entities for
// a single text.
func (c *Client) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if len(text) > MaxDocumentLength {
		c.logger.Warn().Int("length", len(text)).Msg("text truncated for analysis")
	}

	texts := []string{text}

	detections, err := c.DetectLanguage(ctx, texts)
	if err != nil {
		return nil, err
	}
	sentiments, err := c.AnalyzeSentiment(ctx, texts, true)
	if err != nil {
		return nil, err
	}
	phrases, err := c.ExtractKeyPhrases(ctx, texts)
	if err != nil {
		return nil, err
	}
	entities, err := c.RecognizeEntities(ctx, texts)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		Text:       text,
		Language:   detections[0],
		Sentiment:  sentiments[0],
		KeyPhrases: phrases[0].Phrases,
		Entities:   entities[0].Entities,
		Timestamp:  time.Now(),
	}, nil
}

func maxScore(s ConfidenceScores) float64 {
	m := s.Positive
	if s.Neutral > m {
		m = s.Neutral
	}
	if s.Negative > m {
		m = s.Negative
	}
	return m
}

func warningMessages(ws []warning) []string {
	var out []string
	for _, w := range ws {
		out = append(out, w.Message)
	}
	return out
}
