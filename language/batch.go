package language

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BatchSummaryOptions configures BatchSummarize.
type BatchSummaryOptions struct {
	Type          SummaryType
	SentenceCount int
	SortBy        SortBy
	Length        SummaryLength
}

// BatchAnalyze runs a comprehensive analysis over every text with
// bounded concurrency. Documents that fail are logged and skipped;
// onProgress, when set, is called after each document finishes.
func (c *Client) BatchAnalyze(ctx context.Context, texts []string, onProgress func(done, total int)) ([]AnalysisResult, error) {
	slots := make([]*AnalysisResult, len(texts))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			result, err := c.Analyze(ctx, text)
			if err != nil {
				c.logger.Error().Err(err).Int("document", i+1).Msg("failed to analyze document")
			} else {
				slots[i] = result
			}
			if onProgress != nil {
				onProgress(int(done.Add(1)), len(texts))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]AnalysisResult, 0, len(texts))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	c.logger.Info().
		Int("successful", len(results)).
		Int("total", len(texts)).
		Msg("batch analysis completed")
	return results, nil
}

// BatchSummarize summarizes every document with bounded concurrency.
func (c *Client) BatchSummarize(ctx context.Context, documents []string, opts BatchSummaryOptions, onProgress func(done, total int)) ([]SummaryResult, error) {
	if opts.Type == "" {
		opts.Type = Extractive
	}
	if opts.SentenceCount == 0 {
		opts.SentenceCount = 3
	}

	slots := make([]*SummaryResult, len(documents))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, doc := range documents {
		i, doc := i, doc
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			var (
				result *SummaryResult
				err    error
			)
			if opts.Type == Abstractive {
				result, err = c.AbstractiveSummarize(ctx, doc, opts.Length)
			} else {
				result, err = c.ExtractiveSummarize(ctx, doc, opts.SentenceCount, opts.SortBy)
			}
			if err != nil {
				c.logger.Error().Err(err).Int("document", i+1).Msg("failed to summarize document")
			} else {
				slots[i] = result
			}
			if onProgress != nil {
				onProgress(int(done.Add(1)), len(documents))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]SummaryResult, 0, len(documents))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	c.logger.Info().
		Int("successful", len(results)).
		Int("total", len(documents)).
		Msg("batch summarization completed")
	return results, nil
}
