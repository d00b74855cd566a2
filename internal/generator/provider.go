package generator

import (
	"context"
	"fmt"

	"github.com/eternisai/firebase-notifier/internal/config"
)

// Provider turns a rendered prompt into message copy.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds the provider selected in cfg.
func NewProvider(ctx context.Context, cfg config.AI) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderGemini:
		return NewGemini(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

type unavailable struct {
	name   string
	reason error
}

// Unavailable returns a provider that always fails with reason. It keeps
// the action usable when credentials are missing.
func Unavailable(name string, reason error) Provider {
	return &unavailable{name: name, reason: reason}
}

func (u *unavailable) Name() string { return u.name }

func (u *unavailable) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("provider %s unavailable: %w", u.name, u.reason)
}
