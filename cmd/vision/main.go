package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"cognikit/internal/config"
	"cognikit/vision"
)

const sampleImageURL = "https://raw.githubusercontent.com/Azure-Samples/cognitive-services-sample-data-files/master/ComputerVision/Images/landmark.jpg"

func main() {
	godotenv.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()
	client, err := vision.New(cfg.Vision.Endpoint, cfg.Vision.Key,
		vision.WithLogger(logger),
		vision.WithRetry(cfg.Retry()),
	)
	if err != nil {
		fmt.Println("Error: please set AZURE_VISION_ENDPOINT and AZURE_VISION_KEY")
		os.Exit(1)
	}

	ctx := context.Background()

	// Image sources can come from the command line; with no arguments
	// the sample image is analyzed and an interactive prompt follows.
	if args := os.Args[1:]; len(args) > 0 {
		for _, arg := range args {
			analyzeOne(ctx, client, arg)
		}
		return
	}

	fmt.Println("Analyzing sample image from URL")
	analyzeOne(ctx, client, sampleImageURL)

	fmt.Println("\nEnter an image URL or local file path to analyze (empty line to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Image: ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			return
		}
		analyzeOne(ctx, client, input)
	}
}

func analyzeOne(ctx context.Context, client *vision.Client, source string) {
	var (
		analysis *vision.Analysis
		err      error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		analysis, err = client.AnalyzeURL(ctx, source)
	} else {
		analysis, err = client.AnalyzeFile(ctx, source)
	}
	if err != nil {
		fmt.Printf("Error analyzing image: %v\n", err)
		return
	}
	printAnalysis(analysis)
}

func printAnalysis(a *vision.Analysis) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("IMAGE ANALYSIS RESULTS")
	fmt.Println(strings.Repeat("=", 60))

	if caption, confidence := a.Caption(); caption != "" {
		fmt.Printf("\nDescription: %s (confidence %.2f%%)\n", caption, confidence*100)
	}

	if len(a.Tags) > 0 {
		fmt.Printf("\nTags (%d found):\n", len(a.Tags))
		for i, tag := range a.Tags {
			if i >= 10 {
				break
			}
			fmt.Printf("  - %s (%.2f%%)\n", tag.Name, tag.Confidence*100)
		}
	}

	if len(a.Categories) > 0 {
		fmt.Printf("\nCategories (%d found):\n", len(a.Categories))
		for i, category := range a.Categories {
			if i >= 5 {
				break
			}
			fmt.Printf("  - %s (%.2f%%)\n", category.Name, category.Score*100)
		}
	}

	if len(a.Faces) > 0 {
		fmt.Printf("\nFaces (%d detected):\n", len(a.Faces))
		for i, face := range a.Faces {
			fmt.Printf("  Face %d: %d years old, %s\n", i+1, face.Age, face.Gender)
		}
	}

	fmt.Println("\nColors:")
	fmt.Printf("  Dominant:   %s\n", strings.Join(a.Color.DominantColors, ", "))
	fmt.Printf("  Foreground: %s\n", a.Color.DominantColorForeground)
	fmt.Printf("  Background: %s\n", a.Color.DominantColorBackground)
	fmt.Printf("  Accent:     %s\n", a.Color.AccentColor)
	fmt.Printf("  Black & white: %v\n", a.Color.IsBWImg)

	if a.Flagged() {
		fmt.Println("\nContent warning:")
		if a.Adult.IsAdultContent {
			fmt.Printf("  Adult content: %.2f%%\n", a.Adult.AdultScore*100)
		}
		if a.Adult.IsRacyContent {
			fmt.Printf("  Racy content: %.2f%%\n", a.Adult.RacyScore*100)
		}
		if a.Adult.IsGoryContent {
			fmt.Printf("  Gory content: %.2f%%\n", a.Adult.GoreScore*100)
		}
	}

	fmt.Println(strings.Repeat("=", 60))
}
