// Package translator is a typed client for the Translator v3 REST API:
// detection, translation, transliteration, and language listing.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cognikit/internal/retry"
)

const apiVersion = "3.0"

var (
	ErrMissingCredentials = errors.New("translator: endpoint, key, and region are required")
	ErrEmptyInput         = errors.New("translator: input text cannot be empty")
	ErrNoTargetLanguage   = errors.New("translator: at least one target language is required")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("translator: api error %d (code %d): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) HTTPStatus() int { return e.Status }

// Detection is a language detection result for one text.
type Detection struct {
	Language     string        `json:"language"`
	Score        float64       `json:"score"`
	Alternatives []Alternative `json:"alternatives"`
}

type Alternative struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

// Translation is one target-language rendering of a text.
type Translation struct {
	Text string `json:"text"`
	To   string `json:"to"`
}

// Result is the full translation outcome for one input text.
type Result struct {
	DetectedLanguage *Detection    `json:"detectedLanguage"`
	Translations     []Translation `json:"translations"`
}

// Transliteration is a text rendered in another script.
type Transliteration struct {
	Text   string `json:"text"`
	Script string `json:"script"`
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
	Dir        string `json:"dir"`
}

// Options tune a Translate call. Zero value means plain text, profanity
// untouched, source language auto-detected.
type Options struct {
	SourceLanguage        string
	TextType              string // "plain" or "html"
	ProfanityAction       string // "NoAction", "Marked", or "Deleted"
	IncludeAlignment      bool
	IncludeSentenceLength bool
}

// Client talks to one Translator resource. The HTTP client and trace ID
// are reused for the lifetime of the Client.
type Client struct {
	endpoint   string
	key        string
	region     string
	traceID    string
	httpClient *http.Client
	logger     zerolog.Logger
	retryCfg   retry.Config
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

func New(endpoint, key, region string, opts ...Option) (*Client, error) {
	if endpoint == "" || key == "" || region == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		region:     region,
		traceID:    uuid.NewString(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
		retryCfg:   retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Detect identifies the language of each text, with scored
// alternatives when the service is unsure.
func (c *Client) Detect(ctx context.Context, texts []string) ([]Detection, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("api-version", apiVersion)

	var results []Detection
	err := c.post(ctx, "detect", query, texts, &results)
	return results, err
}

// Translate renders each text into every target language.
func (c *Client) Translate(ctx context.Context, texts []string, to []string, opts Options) ([]Result, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}
	if len(to) == 0 {
		return nil, ErrNoTargetLanguage
	}

	query := url.Values{}
	query.Set("api-version", apiVersion)
	for _, lang := range to {
		query.Add("to", lang)
	}
	if opts.SourceLanguage != "" {
		query.Set("from", opts.SourceLanguage)
	}
	if opts.TextType != "" && opts.TextType != "plain" {
		query.Set("textType", opts.TextType)
	}
	if opts.ProfanityAction != "" && opts.ProfanityAction != "NoAction" {
		query.Set("profanityAction", opts.ProfanityAction)
	}
	if opts.IncludeAlignment {
		query.Set("includeAlignment", "true")
	}
	if opts.IncludeSentenceLength {
		query.Set("includeSentenceLength", "true")
	}

	var results []Result
	err := c.post(ctx, "translate", query, texts, &results)
	return results, err
}

// Transliterate converts each text between scripts of one language.
func (c *Client) Transliterate(ctx context.Context, texts []string, language, fromScript, toScript string) ([]Transliteration, error) {
	if err := validateTexts(texts); err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("api-version", apiVersion)
	query.Set("language", language)
	query.Set("fromScript", fromScript)
	query.Set("toScript", toScript)

	var results []Transliteration
	err := c.post(ctx, "transliterate", query, texts, &results)
	return results, err
}

// Languages lists the languages supported for the given scope
// (translation, transliteration, or dictionary).
func (c *Client) Languages(ctx context.Context, scope string) (map[string]LanguageInfo, error) {
	if scope == "" {
		scope = "translation"
	}
	reqURL := fmt.Sprintf("%s/languages?api-version=%s&scope=%s", c.endpoint, apiVersion, scope)

	var wire map[string]map[string]LanguageInfo
	err := retry.Do(ctx, c.logger, "languages", c.retryCfg, func() error {
		return c.roundTrip(ctx, http.MethodGet, reqURL, nil, &wire)
	})
	if err != nil {
		return nil, err
	}
	return wire[scope], nil
}

func (c *Client) post(ctx context.Context, path string, query url.Values, texts []string, out any) error {
	type textItem struct {
		Text string `json:"text"`
	}
	body := make([]textItem, len(texts))
	for i, t := range texts {
		body[i] = textItem{Text: t}
	}
	reqURL := fmt.Sprintf("%s/%s?%s", c.endpoint, path, query.Encode())

	return retry.Do(ctx, c.logger, path, c.retryCfg, func() error {
		return c.roundTrip(ctx, http.MethodPost, reqURL, body, out)
	})
}

func (c *Client) roundTrip(ctx context.Context, method, reqURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("translator: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("translator: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", c.region)
	req.Header.Set("X-ClientTraceId", c.traceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("translator: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("translator: failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		var wire struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if jsonErr := json.Unmarshal(data, &wire); jsonErr == nil && wire.Error.Message != "" {
			apiErr.Code = wire.Error.Code
			apiErr.Message = wire.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("translator: failed to decode response: %w", err)
		}
	}
	return nil
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
