package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"cognikit/chat"
	"cognikit/internal/config"
	"cognikit/internal/retry"
	"cognikit/language"
	"cognikit/translator"
	"cognikit/vision"
)

const probeImageURL = "https://raw.githubusercontent.com/Azure-Samples/cognitive-services-sample-data-files/master/ComputerVision/Images/landmark.jpg"

type checkResult struct {
	service    string
	configured bool
	ok         bool
	detail     string
}

func main() {
	godotenv.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	cfg := config.Load()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Service Setup Check")
	fmt.Println(strings.Repeat("=", 60))

	// Probes stay cheap: one tiny request per configured service, and a
	// single attempt each so a broken endpoint fails fast.
	quick := retry.Config{MaxAttempts: 1, InitialInterval: time.Second, MaxInterval: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results := []checkResult{
		checkLanguage(ctx, cfg, logger, quick),
		checkTranslator(ctx, cfg, logger, quick),
		checkVision(ctx, cfg, logger, quick),
		checkChat(ctx, cfg, chat.OpenAIProviderType),
		checkChat(ctx, cfg, chat.AnthropicProviderType),
	}

	fmt.Println("\nResults:")
	fmt.Println(strings.Repeat("-", 60))
	configured := 0
	working := 0
	for _, r := range results {
		status := "not configured"
		switch {
		case r.configured && r.ok:
			status = "OK"
			configured++
			working++
		case r.configured:
			status = "FAILED"
			configured++
		}
		fmt.Printf("  %-22s %s\n", r.service, status)
		if r.detail != "" {
			fmt.Printf("      %s\n", r.detail)
		}
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%d of %d configured services responded.\n", working, configured)

	if configured == 0 {
		fmt.Println("\nNo services are configured. Set the environment variables for at")
		fmt.Println("least one service (see .env.example) and run this check again.")
		os.Exit(1)
	}
}

func checkLanguage(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger, quick retry.Config) checkResult {
	r := checkResult{service: "Language"}
	client, err := language.New(cfg.Language.Endpoint, cfg.Language.Key,
		language.WithLogger(logger),
		language.WithRetry(quick),
	)
	if err != nil {
		return r
	}
	r.configured = true

	detections, err := client.DetectLanguage(ctx, []string{"Hello world"})
	if err != nil {
		r.detail = err.Error()
		return r
	}
	r.ok = true
	if len(detections) > 0 {
		r.detail = fmt.Sprintf("detected %q for the probe text", detections[0].Code)
	}
	return r
}

func checkTranslator(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger, quick retry.Config) checkResult {
	r := checkResult{service: "Translator"}
	client, err := translator.New(cfg.Translator.Endpoint, cfg.Translator.Key, cfg.Translator.Region,
		translator.WithLogger(logger),
		translator.WithRetry(quick),
	)
	if err != nil {
		return r
	}
	r.configured = true

	languages, err := client.Languages(ctx, "translation")
	if err != nil {
		r.detail = err.Error()
		return r
	}
	r.ok = true
	r.detail = fmt.Sprintf("%d translation languages available", len(languages))
	return r
}

func checkVision(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger, quick retry.Config) checkResult {
	r := checkResult{service: "Vision"}
	client, err := vision.New(cfg.Vision.Endpoint, cfg.Vision.Key,
		vision.WithLogger(logger),
		vision.WithRetry(quick),
	)
	if err != nil {
		return r
	}
	r.configured = true

	analysis, err := client.AnalyzeURL(ctx, probeImageURL)
	if err != nil {
		r.detail = err.Error()
		return r
	}
	r.ok = true
	if caption, _ := analysis.Caption(); caption != "" {
		r.detail = fmt.Sprintf("probe image caption: %s", caption)
	}
	return r
}

func checkChat(ctx context.Context, cfg *config.AppConfig, providerType chat.ProviderType) checkResult {
	r := checkResult{service: fmt.Sprintf("Chat (%s)", providerType)}
	provider := chat.NewProvider(providerType, cfg.Chat)
	if provider == nil {
		return r
	}
	if err := provider.Prepare(); err != nil {
		// Prepare fails only on missing credentials, which means the
		// provider is simply not configured.
		return r
	}
	r.configured = true

	probeCfg := chat.DefaultConfig()
	probeCfg.MaxTokens = 10
	probeCfg.SystemPrompt = "Reply with the single word OK."

	completion, err := provider.Complete(ctx, []chat.Message{
		{Role: chat.RoleSystem, Content: probeCfg.SystemPrompt},
		{Role: chat.RoleUser, Content: "ping"},
	}, probeCfg)
	if err != nil {
		r.detail = err.Error()
		return r
	}
	r.ok = true
	r.detail = fmt.Sprintf("responded with %q", strings.TrimSpace(completion.Content))
	return r
}
