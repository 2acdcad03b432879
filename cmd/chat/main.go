package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"cognikit/chat"
	"cognikit/internal/config"
)

func main() {
	providerName := flag.String("provider", "openai", "chat provider: openai or anthropic")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load()

	provider := chat.NewProvider(chat.ProviderType(*providerName), cfg.Chat)
	if provider == nil {
		fmt.Printf("Unknown provider %q (expected openai or anthropic)\n", *providerName)
		os.Exit(1)
	}
	if err := provider.Prepare(); err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Please check AZURE_OPENAI_ENDPOINT / AZURE_OPENAI_API_KEY (or ANTHROPIC_API_KEY).")
		os.Exit(1)
	}

	app := &chatApp{
		provider:     provider,
		chatCfg:      chat.DefaultConfig(),
		streaming:    true,
		conversation: chat.NewConversation(chat.DefaultConfig().SystemPrompt, chat.DefaultMaxHistory),
	}
	app.run(context.Background())
}

type chatApp struct {
	provider     chat.Provider
	chatCfg      chat.Config
	streaming    bool
	conversation *chat.Conversation
}

func (app *chatApp) run(ctx context.Context) {
	app.welcome()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !app.command(input) {
				return
			}
			continue
		}

		if app.streaming {
			app.streamResponse(ctx, input)
		} else {
			app.completeResponse(ctx, input)
		}
		fmt.Println()
	}
}

func (app *chatApp) welcome() {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Chat Assistant (%s)\n", app.provider)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Commands:")
	fmt.Println("  /help     - show this help message")
	fmt.Println("  /config   - show current configuration")
	fmt.Println("  /stream   - toggle streaming mode")
	fmt.Println("  /clear    - clear conversation history")
	fmt.Println("  /stats    - show conversation statistics")
	fmt.Println("  /quit     - exit")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Mode: %s\n\n", app.mode())
}

func (app *chatApp) mode() string {
	if app.streaming {
		return "streaming"
	}
	return "non-streaming"
}

// command handles a slash command; it returns false when the app
// should exit.
func (app *chatApp) command(input string) bool {
	switch input {
	case "/help":
		app.welcome()
	case "/config":
		fmt.Printf("Temperature: %.2f\n", app.chatCfg.Temperature)
		fmt.Printf("Max tokens:  %d\n", app.chatCfg.MaxTokens)
		fmt.Printf("Top P:       %.2f\n", app.chatCfg.TopP)
		fmt.Printf("Streaming:   %v\n", app.streaming)
		fmt.Printf("Provider:    %s\n", app.provider)
	case "/stream":
		app.streaming = !app.streaming
		fmt.Printf("Switched to %s mode\n", app.mode())
	case "/clear":
		app.conversation = chat.NewConversation(app.chatCfg.SystemPrompt, chat.DefaultMaxHistory)
		fmt.Println("Conversation history cleared")
	case "/stats":
		fmt.Println(app.conversation.Summary())
	case "/quit":
		fmt.Println("Goodbye!")
		return false
	default:
		fmt.Println("Unknown command. Type /help for available commands.")
	}
	return true
}

func (app *chatApp) streamResponse(ctx context.Context, input string) {
	app.conversation.AddUser(input)
	fmt.Print("Assistant: ")

	completion, err := app.provider.Stream(ctx, app.conversation.Messages(), app.chatCfg, func(delta string) {
		fmt.Print(delta)
	})
	fmt.Println()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	app.conversation.AddAssistant(completion.Content)
	app.recordUsage(completion)
}

func (app *chatApp) completeResponse(ctx context.Context, input string) {
	app.conversation.AddUser(input)
	fmt.Println("Assistant: thinking...")

	completion, err := app.provider.Complete(ctx, app.conversation.Messages(), app.chatCfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Assistant: %s\n", completion.Content)
	app.conversation.AddAssistant(completion.Content)
	app.recordUsage(completion)
}

func (app *chatApp) recordUsage(completion *chat.Completion) {
	if completion.Usage.TotalTokens == 0 {
		return
	}
	app.conversation.AddTokens(completion.Usage.TotalTokens)
	fmt.Printf("Tokens used: %d (prompt %d, completion %d)\n",
		completion.Usage.TotalTokens,
		completion.Usage.PromptTokens,
		completion.Usage.CompletionTokens)
}
