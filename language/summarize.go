package language

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cognikit/internal/retry"
)

type SummaryType string

const (
	Extractive  SummaryType = "extractive"
	Abstractive SummaryType = "abstractive"
)

type SortBy string

const (
	SortByRank   SortBy = "Rank"
	SortByOffset SortBy = "Offset"
)

type SummaryLength string

const (
	LengthShort  SummaryLength = "short"
	LengthMedium SummaryLength = "medium"
	LengthLong   SummaryLength = "long"
)

var (
	ErrSentenceCount = errors.New("language: sentence count must be between 1 and 20")
	ErrSummaryLength = errors.New("language: summary length must be short, medium, or long")
	ErrJobFailed     = errors.New("language: analysis job failed")
)

// ScoredSentence is one extracted sentence with its rank score.
type ScoredSentence struct {
	Text      string
	RankScore float64
	Offset    int
	Length    int
}

// SummaryResult is the outcome of one summarization job.
type SummaryResult struct {
	Type           SummaryType
	Text           string
	Sentences      []ScoredSentence
	ProcessingTime time.Duration
	CharacterCount int
}

// ConversationItem is one turn of a conversation to summarize.
type ConversationItem struct {
	Text          string
	Role          string
	ParticipantID string
}

// ConversationSummary holds per-aspect summaries of a conversation.
type ConversationSummary struct {
	Issue         string
	Resolution    string
	Recap         string
	ChapterTitles []string
	Narratives    []string
}

// DefaultAspects are the conversation aspects requested when the caller
// passes none.
var DefaultAspects = []string{"issue", "resolution", "recap"}

type jobTask struct {
	Kind       string `json:"kind"`
	TaskName   string `json:"taskName,omitempty"`
	Parameters any    `json:"parameters,omitempty"`
}

type analyzeJobRequest struct {
	DisplayName   string `json:"displayName,omitempty"`
	AnalysisInput struct {
		Documents []document `json:"documents"`
	} `json:"analysisInput"`
	Tasks []jobTask `json:"tasks"`
}

type jobStatusResponse struct {
	Status string `json:"status"`
	Tasks  struct {
		Items []struct {
			Kind    string          `json:"kind"`
			Status  string          `json:"status"`
			Results json.RawMessage `json:"results"`
		} `json:"items"`
	} `json:"tasks"`
}

type extractiveResults struct {
	Documents []struct {
		ID        string `json:"id"`
		Sentences []struct {
			Text      string  `json:"text"`
			RankScore float64 `json:"rankScore"`
			Offset    int     `json:"offset"`
			Length    int     `json:"length"`
		} `json:"sentences"`
	} `json:"documents"`
	Errors []docError `json:"errors"`
}

type abstractiveResults struct {
	Documents []struct {
		ID        string `json:"id"`
		Summaries []struct {
			Text string `json:"text"`
		} `json:"summaries"`
	} `json:"documents"`
	Errors []docError `json:"errors"`
}

// ExtractiveSummarize picks the sentenceCount most relevant sentences
// out of text, ordered by sortBy.
func (c *Client) ExtractiveSummarize(ctx context.Context, text string, sentenceCount int, sortBy SortBy) (*SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if sentenceCount < 1 || sentenceCount > 20 {
		return nil, ErrSentenceCount
	}
	if sortBy == "" {
		sortBy = SortByRank
	}

	req := &analyzeJobRequest{DisplayName: "Extractive Summarization"}
	req.AnalysisInput.Documents = []document{{ID: "1", Text: text}}
	req.Tasks = []jobTask{{
		Kind: "ExtractiveSummarization",
		Parameters: map[string]any{
			"sentenceCount": sentenceCount,
			"sortBy":        string(sortBy),
		},
	}}

	start := time.Now()
	var status *jobStatusResponse
	err := retry.Do(ctx, c.logger, "extractive_summarize", c.retryCfg, func() error {
		var runErr error
		status, runErr = c.runJob(ctx, c.textJobsURL(), req)
		return runErr
	})
	c.tracker.Record(len(text), time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}

	for _, item := range status.Tasks.Items {
		if item.Status != "succeeded" {
			continue
		}
		var results extractiveResults
		if err := json.Unmarshal(item.Results, &results); err != nil {
			return nil, fmt.Errorf("language: failed to decode extractive results: %w", err)
		}
		if len(results.Errors) > 0 {
			return nil, fmt.Errorf("language: analysis error: %s", results.Errors[0].Error.Message)
		}
		result := &SummaryResult{
			Type:           Extractive,
			ProcessingTime: time.Since(start),
			CharacterCount: len(text),
		}
		var parts []string
		for _, doc := range results.Documents {
			for _, s := range doc.Sentences {
				result.Sentences = append(result.Sentences, ScoredSentence{
					Text:      s.Text,
					RankScore: s.RankScore,
					Offset:    s.Offset,
					Length:    s.Length,
				})
				parts = append(parts, s.Text)
			}
		}
		result.Text = strings.Join(parts, " ")
		return result, nil
	}
	return nil, ErrJobFailed
}

// AbstractiveSummarize generates novel summary sentences at the
// requested length.
func (c *Client) AbstractiveSummarize(ctx context.Context, text string, length SummaryLength) (*SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	switch length {
	case "":
		length = LengthMedium
	case LengthShort, LengthMedium, LengthLong:
	default:
		return nil, ErrSummaryLength
	}

	req := &analyzeJobRequest{DisplayName: "Abstractive Summarization"}
	req.AnalysisInput.Documents = []document{{ID: "1", Text: text}}
	req.Tasks = []jobTask{{
		Kind:       "AbstractiveSummarization",
		Parameters: map[string]any{"summaryLength": string(length)},
	}}

	start := time.Now()
	var status *jobStatusResponse
	err := retry.Do(ctx, c.logger, "abstractive_summarize", c.retryCfg, func() error {
		var runErr error
		status, runErr = c.runJob(ctx, c.textJobsURL(), req)
		return runErr
	})
	c.tracker.Record(len(text), time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}

	for _, item := range status.Tasks.Items {
		if item.Status != "succeeded" {
			continue
		}
		var results abstractiveResults
		if err := json.Unmarshal(item.Results, &results); err != nil {
			return nil, fmt.Errorf("language: failed to decode abstractive results: %w", err)
		}
		if len(results.Errors) > 0 {
			return nil, fmt.Errorf("language: analysis error: %s", results.Errors[0].Error.Message)
		}
		var parts []string
		for _, doc := range results.Documents {
			for _, s := range doc.Summaries {
				parts = append(parts, s.Text)
			}
		}
		return &SummaryResult{
			Type:           Abstractive,
			Text:           strings.Join(parts, " "),
			ProcessingTime: time.Since(start),
			CharacterCount: len(text),
		}, nil
	}
	return nil, ErrJobFailed
}

// SummarizeConversation runs an analyze-conversations job and returns
// the requested summary aspects.
func (c *Client) SummarizeConversation(ctx context.Context, items []ConversationItem, aspects []string) (*ConversationSummary, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}
	if len(aspects) == 0 {
		aspects = DefaultAspects
	}

	req := newConversationJobRequest(items, aspects)

	start := time.Now()
	var status *jobStatusResponse
	err := retry.Do(ctx, c.logger, "summarize_conversation", c.retryCfg, func() error {
		var runErr error
		status, runErr = c.runJob(ctx, c.conversationJobsURL(), req)
		return runErr
	})
	chars := 0
	for _, item := range items {
		chars += len(item.Text)
	}
	c.tracker.Record(chars, time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}

	summary := &ConversationSummary{}
	for _, item := range status.Tasks.Items {
		if item.Status != "succeeded" {
			continue
		}
		var results conversationResults
		if err := json.Unmarshal(item.Results, &results); err != nil {
			return nil, fmt.Errorf("language: failed to decode conversation results: %w", err)
		}
		for _, conv := range results.Conversations {
			for _, s := range conv.Summaries {
				switch s.Aspect {
				case "issue":
					summary.Issue = s.Text
				case "resolution":
					summary.Resolution = s.Text
				case "recap":
					summary.Recap = s.Text
				case "chapterTitle":
					summary.ChapterTitles = append(summary.ChapterTitles, s.Text)
				case "narrative":
					summary.Narratives = append(summary.Narratives, s.Text)
				}
			}
		}
	}
	return summary, nil
}

type conversationJobRequest struct {
	DisplayName   string `json:"displayName"`
	AnalysisInput struct {
		Conversations []conversationInput `json:"conversations"`
	} `json:"analysisInput"`
	Tasks []jobTask `json:"tasks"`
}

type conversationInput struct {
	ConversationItems []conversationItemInput `json:"conversationItems"`
	Modality          string                  `json:"modality"`
	ID                string                  `json:"id"`
	Language          string                  `json:"language"`
}

type conversationItemInput struct {
	Text          string `json:"text"`
	ID            string `json:"id"`
	Role          string `json:"role"`
	ParticipantID string `json:"participantId"`
}

type conversationResults struct {
	Conversations []struct {
		Summaries []struct {
			Aspect string `json:"aspect"`
			Text   string `json:"text"`
		} `json:"summaries"`
	} `json:"conversations"`
}

func newConversationJobRequest(items []ConversationItem, aspects []string) *conversationJobRequest {
	conv := conversationInput{Modality: "text", ID: "conversation1", Language: "en"}
	for i, item := range items {
		role := item.Role
		if role == "" {
			role = "Customer"
		}
		participant := item.ParticipantID
		if participant == "" {
			participant = fmt.Sprintf("Participant_%d", i+1)
		}
		conv.ConversationItems = append(conv.ConversationItems, conversationItemInput{
			Text:          item.Text,
			ID:            fmt.Sprintf("%d", i+1),
			Role:          role,
			ParticipantID: participant,
		})
	}

	req := &conversationJobRequest{DisplayName: "Conversation Summarization"}
	req.AnalysisInput.Conversations = []conversationInput{conv}
	for _, aspect := range aspects {
		req.Tasks = append(req.Tasks, jobTask{
			Kind:       "ConversationalSummarizationTask",
			TaskName:   aspect + "_task",
			Parameters: map[string]any{"summaryAspects": []string{aspect}},
		})
	}
	return req
}

func (c *Client) textJobsURL() string {
	return fmt.Sprintf("%s/language/analyze-text/jobs?api-version=%s", c.endpoint, apiVersion)
}

func (c *Client) conversationJobsURL() string {
	return fmt.Sprintf("%s/language/analyze-conversations/jobs?api-version=%s", c.endpoint, apiVersion)
}

// runJob submits one async analysis job and polls its
// Operation-Location until it finishes.
func (c *Client) runJob(ctx context.Context, url string, payload any) (*jobStatusResponse, error) {
	headers, err := c.roundTrip(ctx, http.MethodPost, url, payload, nil)
	if err != nil {
		return nil, err
	}
	location := headers.Get("Operation-Location")
	if location == "" {
		return nil, errors.New("language: no operation location in response")
	}

	for {
		var status jobStatusResponse
		if _, err := c.roundTrip(ctx, http.MethodGet, location, nil, &status); err != nil {
			return nil, err
		}
		switch status.Status {
		case "succeeded":
			return &status, nil
		case "failed", "cancelled":
			return nil, ErrJobFailed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
