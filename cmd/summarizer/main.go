package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"cognikit/internal/config"
	"cognikit/internal/progress"
	"cognikit/language"
)

func main() {
	godotenv.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()
	client, err := language.New(cfg.Language.Endpoint, cfg.Language.Key,
		language.WithLogger(logger),
		language.WithRetry(cfg.Retry()),
		language.WithBatchWorkers(cfg.BatchWorkers),
	)
	if err != nil {
		fmt.Println("Error: please set AZURE_LANGUAGE_ENDPOINT and AZURE_LANGUAGE_KEY")
		os.Exit(1)
	}

	fmt.Println("\nText Summarizer")
	fmt.Println(strings.Repeat("=", 50))

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	// Documents can be long; the default token buffer is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Println("\nChoose an option:")
		fmt.Println("1. Extractive summarization")
		fmt.Println("2. Abstractive summarization")
		fmt.Println("3. Conversation summarization")
		fmt.Println("4. Batch processing")
		fmt.Println("5. View statistics")
		fmt.Println("6. Exit")
		fmt.Print("\nEnter your choice (1-6): ")

		if !scanner.Scan() {
			return
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			extractiveMode(ctx, client, scanner)
		case "2":
			abstractiveMode(ctx, client, scanner)
		case "3":
			conversationMode(ctx, client, scanner)
		case "4":
			batchMode(ctx, client, scanner)
		case "5":
			showStatistics(client)
		case "6":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func extractiveMode(ctx context.Context, client *language.Client, scanner *bufio.Scanner) {
	fmt.Println("\nExtractive Summarization")
	fmt.Println(strings.Repeat("-", 30))

	text := prompt(scanner, "Enter text to summarize: ")
	if text == "" {
		fmt.Println("Text cannot be empty.")
		return
	}

	sentenceCount := 3
	if raw := prompt(scanner, "Number of sentences (1-20, default 3): "); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("Invalid input: sentence count must be an integer.")
			return
		}
		sentenceCount = n
	}
	sortBy := language.SortBy(prompt(scanner, "Sort by (Rank/Offset, default Rank): "))

	fmt.Println()
	bar := progress.New()
	bar.Update("Summarizing")
	result, err := client.ExtractiveSummarize(ctx, text, sentenceCount, sortBy)
	bar.Clear()
	if err != nil {
		fmt.Printf("Summarization failed: %v\n", err)
		return
	}

	fmt.Println("\nExtractive summary:")
	fmt.Println(result.Text)
	fmt.Printf("Processing time: %.2fs, characters: %d\n", result.ProcessingTime.Seconds(), result.CharacterCount)
	if len(result.Sentences) > 0 {
		fmt.Println("\nExtracted sentences:")
		var scores []float64
		for i, s := range result.Sentences {
			fmt.Printf("%d. %s (score %.3f)\n", i+1, s.Text, s.RankScore)
			scores = append(scores, s.RankScore)
		}
		fmt.Printf("Rank scores: mean %.3f, stddev %.3f\n", stat.Mean(scores, nil), stat.StdDev(scores, nil))
	}
}

func abstractiveMode(ctx context.Context, client *language.Client, scanner *bufio.Scanner) {
	fmt.Println("\nAbstractive Summarization")
	fmt.Println(strings.Repeat("-", 30))

	text := prompt(scanner, "Enter text to summarize: ")
	if text == "" {
		fmt.Println("Text cannot be empty.")
		return
	}
	length := language.SummaryLength(prompt(scanner, "Summary length (short/medium/long, default medium): "))

	fmt.Println()
	bar := progress.New()
	bar.Update("Summarizing")
	result, err := client.AbstractiveSummarize(ctx, text, length)
	bar.Clear()
	if err != nil {
		fmt.Printf("Summarization failed: %v\n", err)
		return
	}

	fmt.Println("\nAbstractive summary:")
	fmt.Println(result.Text)
	fmt.Printf("Processing time: %.2fs, characters: %d\n", result.ProcessingTime.Seconds(), result.CharacterCount)
}

func conversationMode(ctx context.Context, client *language.Client, scanner *bufio.Scanner) {
	fmt.Println("\nConversation Summarization")
	fmt.Println(strings.Repeat("-", 30))
	fmt.Println("Enter the conversation (type 'done' as speaker when finished):")

	var items []language.ConversationItem
	for {
		speaker := prompt(scanner, "Speaker (Agent/Customer): ")
		if strings.EqualFold(speaker, "done") {
			break
		}
		text := prompt(scanner, "Text: ")
		if text == "" {
			continue
		}
		items = append(items, language.ConversationItem{
			Text:          text,
			Role:          speaker,
			ParticipantID: speaker + "_1",
		})
	}
	if len(items) == 0 {
		fmt.Println("No conversation items entered.")
		return
	}

	fmt.Println("\nProcessing...")
	summary, err := client.SummarizeConversation(ctx, items, nil)
	if err != nil {
		fmt.Printf("Conversation summarization failed: %v\n", err)
		return
	}

	fmt.Println("\nConversation summary:")
	if summary.Issue != "" {
		fmt.Printf("Issue:      %s\n", summary.Issue)
	}
	if summary.Resolution != "" {
		fmt.Printf("Resolution: %s\n", summary.Resolution)
	}
	if summary.Recap != "" {
		fmt.Printf("Recap:      %s\n", summary.Recap)
	}
}

func batchMode(ctx context.Context, client *language.Client, scanner *bufio.Scanner) {
	fmt.Println("\nBatch Processing")
	fmt.Println(strings.Repeat("-", 30))
	fmt.Println("Enter documents to summarize (type 'done' when finished):")

	var documents []string
	for {
		text := prompt(scanner, fmt.Sprintf("Document %d: ", len(documents)+1))
		if strings.EqualFold(text, "done") {
			break
		}
		if text != "" {
			documents = append(documents, text)
		}
	}
	if len(documents) == 0 {
		fmt.Println("No documents entered.")
		return
	}

	opts := language.BatchSummaryOptions{Type: language.Extractive, SentenceCount: 3}
	if t := prompt(scanner, "Summarization type (extractive/abstractive, default extractive): "); t == string(language.Abstractive) {
		opts.Type = language.Abstractive
	}

	fmt.Printf("\nProcessing %d documents...\n", len(documents))
	bar := progress.NewCounted(len(documents), "Summarizing")
	results, err := client.BatchSummarize(ctx, documents, opts, func(done, total int) {
		bar.Step()
	})
	bar.Clear()
	if err != nil {
		fmt.Printf("Batch processing failed: %v\n", err)
		return
	}

	fmt.Printf("\nBatch results (%d/%d successful):\n", len(results), len(documents))
	for i, result := range results {
		preview := result.Text
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		fmt.Printf("\nDocument %d:\n", i+1)
		fmt.Printf("Summary: %s\n", preview)
		fmt.Printf("Processing time: %.2fs\n", result.ProcessingTime.Seconds())
	}
}

func showStatistics(client *language.Client) {
	fmt.Println("\nProcessing Statistics")
	fmt.Println(strings.Repeat("-", 30))

	s := client.Stats()
	fmt.Printf("Total requests:       %d\n", s.TotalRequests)
	fmt.Printf("Successful requests:  %d\n", s.SuccessfulRequests)
	fmt.Printf("Failed requests:      %d\n", s.FailedRequests)
	fmt.Printf("Success rate:         %.2f%%\n", s.SuccessRatePercent)
	fmt.Printf("Characters processed: %d\n", s.CharactersProcessed)
	fmt.Printf("Average time:         %.2fs\n", s.AverageSeconds)
	fmt.Printf("Estimated cost:       $%.4f\n", s.EstimatedCostUSD)
}
