package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"cognikit/internal/config"
	"cognikit/language"
)

var sampleTexts = []string{
	"I absolutely love this product! It's amazing and works perfectly.",
	"This service is terrible. I'm very disappointed and frustrated.",
	"The meeting is scheduled for 3 PM in conference room B.",
	"The food was delicious, but the service was slow and unprofessional.",
	"¡Hola! Me encanta la inteligencia artificial y sus aplicaciones.",
}

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

	ctx := context.Background()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Text Analyzer - language, sentiment, key phrases, entities")
	fmt.Println(strings.Repeat("=", 60))

	// Connection check with a cheap call before running the demos.
	if _, err := client.DetectLanguage(ctx, []string{"Hello world"}); err != nil {
		fmt.Printf("Failed to connect to the Language service: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connected to the Language service.")

	runSamples(ctx, client)
	interactive(ctx, client)
}

func runSamples(ctx context.Context, client *language.Client) {
	fmt.Println("\nRunning sample analysis...")
	for i, text := range sampleTexts {
		fmt.Printf("\nSample %d/%d:\n", i+1, len(sampleTexts))
		result, err := client.Analyze(ctx, text)
		if err != nil {
			fmt.Printf("Analysis failed: %v\n", err)
			continue
		}
		printAnalysis(result)
	}
}

func interactiveHelp() []string {
	return []string{
		"  - type text to analyze",
		"  - 'batch' to analyze multiple texts",
		"  - 'history' to show recent analyses",
		"  - 'stats' to show request statistics",
		"  - 'quit' to exit",
	}
}

func interactive(ctx context.Context, client *language.Client) {
	fmt.Println("\nInteractive mode. Commands:")
	for _, line := range interactiveHelp() {
		fmt.Println(line)
	}

	var history []*language.AnalysisResult
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter text: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return
		case "stats":
			printStats(client)
			continue
		case "history":
			printHistory(history)
			continue
		case "batch":
			interactiveBatch(ctx, client, scanner)
			continue
		}

		result, err := client.Analyze(ctx, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(result)
		history = append(history, result)
	}
}

func interactiveBatch(ctx context.Context, client *language.Client, scanner *bufio.Scanner) {
	fmt.Println("Enter texts, one per line (empty line to finish):")
	var texts []string
	for {
		fmt.Printf("Text %d: ", len(texts)+1)
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		fmt.Println("No texts entered.")
		return
	}

	fmt.Printf("Analyzing %d texts...\n", len(texts))
	results, err := client.BatchAnalyze(ctx, texts, nil)
	if err != nil {
		fmt.Printf("Batch analysis failed: %v\n", err)
		return
	}

	counts := map[string]int{}
	var confidences []float64
	for i := range results {
		r := &results[i]
		counts[r.Sentiment.Sentiment]++
		confidences = append(confidences, r.Sentiment.OverallConfidence)
		fmt.Printf("\n%d. %s\n", i+1, r.Text)
		fmt.Printf("   Sentiment: %s (%.2f%%)\n", r.Sentiment.Sentiment, r.Sentiment.OverallConfidence*100)
		if len(r.KeyPhrases) > 0 {
			fmt.Printf("   Key phrases: %s\n", strings.Join(r.KeyPhrases, ", "))
		}
	}

	fmt.Println("\nSentiment distribution:")
	for _, sentiment := range []string{"positive", "neutral", "negative", "mixed"} {
		if n := counts[sentiment]; n > 0 {
			fmt.Printf("  %s: %d (%.1f%%)\n", sentiment, n, float64(n)/float64(len(results))*100)
		}
	}
	if len(confidences) > 0 {
		fmt.Println(confidenceSummary(confidences))
	}
}

func confidenceSummary(confidences []float64) string {
	return fmt.Sprintf("Mean confidence: %.2f%% (stddev %.2f%%)",
		stat.Mean(confidences, nil)*100, stat.StdDev(confidences, nil)*100)
}

func printAnalysis(r *language.AnalysisResult) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Language:  %s (%s), confidence %.2f%%\n", r.Language.Language, r.Language.Code, r.Language.Confidence*100)
	fmt.Printf("Sentiment: %s\n", strings.ToUpper(r.Sentiment.Sentiment))
	fmt.Printf("  positive %.2f | neutral %.2f | negative %.2f\n",
		r.Sentiment.Scores.Positive, r.Sentiment.Scores.Neutral, r.Sentiment.Scores.Negative)

	if len(r.Sentiment.Targets) > 0 {
		fmt.Println("Opinion targets:")
		for _, t := range r.Sentiment.Targets {
			fmt.Printf("  - %s (%s)\n", t.Text, t.Sentiment)
		}
	}
	if len(r.Sentiment.Assessments) > 0 {
		fmt.Println("Assessments:")
		for _, a := range r.Sentiment.Assessments {
			negated := ""
			if a.IsNegated {
				negated = ", negated"
			}
			fmt.Printf("  - %s (%s%s)\n", a.Text, a.Sentiment, negated)
		}
	}

	if len(r.KeyPhrases) > 0 {
		fmt.Printf("Key phrases: %s\n", strings.Join(r.KeyPhrases, ", "))
	} else {
		fmt.Println("Key phrases: none detected")
	}

	if len(r.Entities) > 0 {
		fmt.Println("Entities:")
		for _, e := range r.Entities {
			sub := ""
			if e.Subcategory != "" {
				sub = fmt.Sprintf(" (%s)", e.Subcategory)
			}
			fmt.Printf("  - %s: %s%s (%.2f%%)\n", e.Text, e.Category, sub, e.Confidence*100)
		}
	}
	fmt.Println(strings.Repeat("-", 60))
}

func printHistory(history []*language.AnalysisResult) {
	if len(history) == 0 {
		fmt.Println("No analysis history available.")
		return
	}
	start := 0
	if len(history) > 5 {
		start = len(history) - 5
	}
	for i, r := range history[start:] {
		preview := r.Text
		if len(preview) > 50 {
			preview = preview[:50] + "..."
		}
		fmt.Printf("%d. [%s] %s\n", i+1, r.Timestamp.Format("15:04:05"), preview)
		fmt.Printf("   %s | %s | %d phrases, %d entities\n",
			r.Sentiment.Sentiment, r.Language.Code, len(r.KeyPhrases), len(r.Entities))
	}
}

func printStats(client *language.Client) {
	s := client.Stats()
	fmt.Printf("Total requests:       %d\n", s.TotalRequests)
	fmt.Printf("Successful requests:  %d\n", s.SuccessfulRequests)
	fmt.Printf("Failed requests:      %d\n", s.FailedRequests)
	fmt.Printf("Success rate:         %.2f%%\n", s.SuccessRatePercent)
	fmt.Printf("Characters processed: %d\n", s.CharactersProcessed)
	fmt.Printf("Average time:         %.2fs\n", s.AverageSeconds)
	fmt.Printf("Estimated cost:       $%.4f\n", s.EstimatedCostUSD)
}
