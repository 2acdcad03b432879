// Package vision analyzes images through the Computer Vision v3.2
// analyze endpoint: tags, categories, caption, faces, color, and
// content moderation flags.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cognikit/internal/retry"
)

const visualFeatures = "Tags,Categories,Description,Faces,ImageType,Color,Adult"

var (
	ErrMissingCredentials = errors.New("vision: endpoint and key are required")
	ErrEmptyImage         = errors.New("vision: image url or data is required")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vision: api error %d (%s): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) HTTPStatus() int { return e.Status }

// Analysis is the decoded analyze response.
type Analysis struct {
	Tags       []Tag      `json:"tags"`
	Categories []Category `json:"categories"`
	Description struct {
		Captions []Caption `json:"captions"`
	} `json:"description"`
	Faces     []Face `json:"faces"`
	ImageType struct {
		ClipArtType     int `json:"clipArtType"`
		LineDrawingType int `json:"lineDrawingType"`
	} `json:"imageType"`
	Color ColorInfo `json:"color"`
	Adult AdultInfo `json:"adult"`
}

type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Hint       string  `json:"hint"`
}

type Category struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type Caption struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type Face struct {
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	FaceRectangle struct {
		Left   int `json:"left"`
		Top    int `json:"top"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"faceRectangle"`
}

type ColorInfo struct {
	DominantColors          []string `json:"dominantColors"`
	DominantColorForeground string   `json:"dominantColorForeground"`
	DominantColorBackground string   `json:"dominantColorBackground"`
	AccentColor             string   `json:"accentColor"`
	IsBWImg                 bool     `json:"isBWImg"`
}

type AdultInfo struct {
	IsAdultContent bool    `json:"isAdultContent"`
	IsRacyContent  bool    `json:"isRacyContent"`
	IsGoryContent  bool    `json:"isGoryContent"`
	AdultScore     float64 `json:"adultScore"`
	RacyScore      float64 `json:"racyScore"`
	GoreScore      float64 `json:"goreScore"`
}

// Caption returns the top caption text, or an empty string.
func (a *Analysis) Caption() (string, float64) {
	if len(a.Description.Captions) == 0 {
		return "", 0
	}
	top := a.Description.Captions[0]
	return top.Text, top.Confidence
}

// Flagged reports whether any content moderation flag fired.
func (a *Analysis) Flagged() bool {
	return a.Adult.IsAdultContent || a.Adult.IsRacyContent || a.Adult.IsGoryContent
}

// Client talks to one Computer Vision resource.
type Client struct {
	endpoint   string
	key        string
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

func New(endpoint, key string, opts ...Option) (*Client, error) {
	if endpoint == "" || key == "" {
		return nil, ErrMissingCredentials
	}
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     zerolog.Nop(),
		retryCfg:   retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) analyzeURL() string {
	return fmt.Sprintf("%s/vision/v3.2/analyze?visualFeatures=%s", c.endpoint, visualFeatures)
}

// AnalyzeURL analyzes an image the service fetches from imageURL.
func (c *Client) AnalyzeURL(ctx context.Context, imageURL string) (*Analysis, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, ErrEmptyImage
	}
	body, err := json.Marshal(map[string]string{"url": imageURL})
	if err != nil {
		return nil, fmt.Errorf("vision: failed to marshal request: %w", err)
	}
	return c.analyze(ctx, "analyze_url", body, "application/json")
}

// AnalyzeFile analyzes a local image file uploaded as the request body.
func (c *Client) AnalyzeFile(ctx context.Context, path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vision: failed to read image file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return c.analyze(ctx, "analyze_file", data, "application/octet-stream")
}

func (c *Client) analyze(ctx context.Context, op string, body []byte, contentType string) (*Analysis, error) {
	var analysis Analysis
	err := retry.Do(ctx, c.logger, op, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL(), bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("vision: failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("vision: request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("vision: failed to read response: %w", err)
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			var wire struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			apiErr := &APIError{Status: resp.StatusCode, Code: "Unknown", Message: http.StatusText(resp.StatusCode)}
			if jsonErr := json.Unmarshal(data, &wire); jsonErr == nil && wire.Error.Message != "" {
				apiErr.Code = wire.Error.Code
				apiErr.Message = wire.Error.Message
			}
			return apiErr
		}
		return json.Unmarshal(data, &analysis)
	})
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
