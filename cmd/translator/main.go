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
	"cognikit/translator"
)

type historyEntry struct {
	original   string
	translated string
	sourceLang string
	targetLang string
}

func main() {
	godotenv.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()
	client, err := translator.New(cfg.Translator.Endpoint, cfg.Translator.Key, cfg.Translator.Region,
		translator.WithLogger(logger),
		translator.WithRetry(cfg.Retry()),
	)
	if err != nil {
		fmt.Println("Error: please set TRANSLATOR_ENDPOINT, TRANSLATOR_KEY, and TRANSLATOR_REGION")
		os.Exit(1)
	}

	ctx := context.Background()

	fmt.Println("Text Translation Demo")
	fmt.Println(strings.Repeat("=", 60))

	languages, err := client.Languages(ctx, "translation")
	if err != nil {
		fmt.Printf("Failed to connect to the Translator service: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected. %d languages supported for translation.\n", len(languages))

	var history []historyEntry

	demoBasicTranslation(ctx, client, &history)
	demoLanguageDetection(ctx, client)
	demoHTMLTranslation(ctx, client)
	demoErrorHandling(ctx, client)

	interactive(ctx, client, &history)
}

func translateAndDisplay(ctx context.Context, client *translator.Client, text string, to []string, history *[]historyEntry) {
	fmt.Printf("\nTranslating to: %s\n", strings.Join(to, ", "))

	results, err := client.Translate(ctx, []string{text}, to, translator.Options{IncludeAlignment: true})
	if err != nil {
		fmt.Printf("Error translating text: %v\n", err)
		return
	}

	for _, result := range results {
		source := ""
		if result.DetectedLanguage != nil {
			source = result.DetectedLanguage.Language
			fmt.Printf("  Detected: %s (confidence %.2f%%)\n", source, result.DetectedLanguage.Score*100)
		}
		fmt.Printf("  Original: %s\n", text)
		for _, t := range result.Translations {
			fmt.Printf("  %s: %s\n", strings.ToUpper(t.To), t.Text)
			if history != nil {
				*history = append(*history, historyEntry{
					original:   text,
					translated: t.Text,
					sourceLang: source,
					targetLang: t.To,
				})
			}
		}
	}
}

func demoBasicTranslation(ctx context.Context, client *translator.Client, history *[]historyEntry) {
	fmt.Println("\nBASIC TRANSLATION")
	fmt.Println(strings.Repeat("-", 40))

	translateAndDisplay(ctx, client, "Hello, how are you today?", []string{"es", "fr", "de"}, history)

	fmt.Println("\nTranslating multiple texts to Spanish:")
	for _, text := range []string{"Good morning!", "Thank you for your help.", "See you later!"} {
		results, err := client.Translate(ctx, []string{text}, []string{"es"}, translator.Options{})
		if err != nil || len(results) == 0 || len(results[0].Translations) == 0 {
			continue
		}
		fmt.Printf("  EN: %s\n", text)
		fmt.Printf("  ES: %s\n", results[0].Translations[0].Text)
	}
}

func demoLanguageDetection(ctx context.Context, client *translator.Client) {
	fmt.Println("\nLANGUAGE DETECTION")
	fmt.Println(strings.Repeat("-", 40))

	texts := []string{
		"Hello, how are you?",
		"Bonjour, comment allez-vous?",
		"Hola, ¿cómo estás?",
		"Guten Tag, wie geht es Ihnen?",
		"こんにちは、元気ですか？",
	}
	detections, err := client.Detect(ctx, texts)
	if err != nil {
		fmt.Printf("Error detecting language: %v\n", err)
		return
	}
	for i, d := range detections {
		fmt.Printf("  %-32s -> %s (%.2f%%)\n", texts[i], d.Language, d.Score*100)
		for j, alt := range d.Alternatives {
			if j >= 3 {
				break
			}
			fmt.Printf("      alternative: %s (%.2f%%)\n", alt.Language, alt.Score*100)
		}
	}
}

func demoHTMLTranslation(ctx context.Context, client *translator.Client) {
	fmt.Println("\nHTML TRANSLATION")
	fmt.Println(strings.Repeat("-", 40))

	html := "<h1>Welcome to our website!</h1><p>We offer <strong>amazing products</strong> at great prices.</p>"
	fmt.Printf("Original HTML:\n  %s\n", html)

	results, err := client.Translate(ctx, []string{html}, []string{"es"}, translator.Options{TextType: "html"})
	if err != nil || len(results) == 0 || len(results[0].Translations) == 0 {
		fmt.Printf("Error translating HTML: %v\n", err)
		return
	}
	fmt.Printf("Translated HTML (Spanish):\n  %s\n", results[0].Translations[0].Text)
}

func demoErrorHandling(ctx context.Context, client *translator.Client) {
	fmt.Println("\nERROR HANDLING")
	fmt.Println(strings.Repeat("-", 40))

	fmt.Println("Testing invalid language code:")
	if _, err := client.Translate(ctx, []string{"Hello"}, []string{"invalid_lang"}, translator.Options{}); err != nil {
		fmt.Printf("  rejected as expected: %v\n", err)
	}

	fmt.Println("Testing empty text:")
	if _, err := client.Translate(ctx, []string{""}, []string{"es"}, translator.Options{}); err != nil {
		fmt.Printf("  rejected as expected: %v\n", err)
	}
}

func showHistory(history []historyEntry) {
	if len(history) == 0 {
		fmt.Println("No translations in history.")
		return
	}
	start := 0
	if len(history) > 5 {
		start = len(history) - 5
	}
	for i, entry := range history[start:] {
		fmt.Printf("%d. %s -> %s\n", i+1, entry.sourceLang, entry.targetLang)
		fmt.Printf("   Original:    %s\n", clip(entry.original, 50))
		fmt.Printf("   Translation: %s\n", clip(entry.translated, 50))
	}
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func interactive(ctx context.Context, client *translator.Client, history *[]historyEntry) {
	fmt.Println("\nINTERACTIVE MODE")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println("Commands:")
	fmt.Println("  - type text to translate")
	fmt.Println("  - 'lang:XX' to set the target language (e.g. 'lang:es')")
	fmt.Println("  - 'detect' to detect the language of the next input")
	fmt.Println("  - 'history' to show translation history")
	fmt.Println("  - 'quit' to exit")

	targetLang := "es"
	detectMode := false
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("\n[Target: %s] Enter text: ", targetLang)
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "quit"):
			fmt.Println("Goodbye!")
			return
		case strings.EqualFold(input, "history"):
			showHistory(*history)
		case strings.EqualFold(input, "detect"):
			detectMode = true
			fmt.Println("Language detection mode enabled for the next input.")
		case strings.HasPrefix(input, "lang:"):
			targetLang = strings.TrimSpace(input[5:])
			fmt.Printf("Target language set to: %s\n", targetLang)
		case detectMode:
			detectMode = false
			detections, err := client.Detect(ctx, []string{input})
			if err != nil || len(detections) == 0 {
				fmt.Printf("Error detecting language: %v\n", err)
				continue
			}
			fmt.Printf("  Language: %s (confidence %.2f%%)\n", detections[0].Language, detections[0].Score*100)
		default:
			translateAndDisplay(ctx, client, input, []string{targetLang}, history)
		}
	}
}
