package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic_sdk "github.com/anthropics/anthropic-sdk-go"
	anthropic_option "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/eternisai/firebase-notifier/internal/config"
)

const (
	ProviderAnthropic     = "anthropic"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	anthropicMaxTokens    = 512
)

type messageCreator interface {
	New(ctx context.Context, body anthropic_sdk.MessageNewParams, opts ...anthropic_option.RequestOption) (*anthropic_sdk.Message, error)
}

// Anthropic generates copy with the Messages API.
type Anthropic struct {
	messages    messageCreator
	model       string
	temperature float64
}

// NewAnthropic creates an Anthropic provider using ANTHROPIC_API_KEY.
func NewAnthropic(cfg config.AI) (*Anthropic, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}

	client := anthropic_sdk.NewClient(anthropic_option.WithAPIKey(cfg.AnthropicAPIKey))
	service := client.Messages

	return newAnthropic(&service, cfg), nil
}

func newAnthropic(messages messageCreator, cfg config.AI) *Anthropic {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{
		messages:    messages,
		model:       model,
		temperature: cfg.Temperature,
	}
}

func (a *Anthropic) Name() string { return ProviderAnthropic }

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic_sdk.MessageNewParams{
		Model:     anthropic_sdk.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic_sdk.MessageParam{
			anthropic_sdk.NewUserMessage(anthropic_sdk.NewTextBlock(prompt)),
		},
		Temperature: anthropic_sdk.Float(a.temperature),
	}

	resp, err := a.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return decodeMessageCopy(text.String())
}
