package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/metrics"
)

// Action is the server-side generate-message action. It never returns an
// error to callers; failures are reported through Result.
type Action struct {
	provider Provider
	prompt   *Prompt
	logger   *logger.Logger
}

// NewAction creates the action around provider using promptText as the copywriter prompt.
func NewAction(provider Provider, promptText string, logger *logger.Logger) (*Action, error) {
	prompt, err := NewPrompt(promptText)
	if err != nil {
		return nil, err
	}
	return &Action{
		provider: provider,
		prompt:   prompt,
		logger:   logger.WithComponent("generator"),
	}, nil
}

// Generate produces message copy for req.
func (a *Action) Generate(ctx context.Context, req Request) (result Result) {
	log := a.logger.WithContext(logger.WithOperation(ctx, "generate_message"))

	defer func() {
		if r := recover(); r != nil {
			log.Error("message generation panicked",
				slog.String("provider", a.provider.Name()),
				slog.Any("panic", r))
			result = a.fail()
		}
	}()

	if strings.TrimSpace(req.LayoutTemplate) == "" {
		log.Warn("generate request missing layout template")
		return a.fail()
	}

	prompt, err := a.prompt.Render(req)
	if err != nil {
		log.Error("failed to render prompt", slog.String("error", err.Error()))
		return a.fail()
	}

	text, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		log.Error("error generating message",
			slog.String("provider", a.provider.Name()),
			slog.String("error", err.Error()))
		return a.fail()
	}

	metrics.Generations.WithLabelValues(a.provider.Name(), "success").Inc()
	log.Info("message generated",
		slog.String("provider", a.provider.Name()),
		slog.String("tone", req.Tone),
		slog.Int("length", len(text)))

	return Result{Success: true, Message: text}
}

func (a *Action) fail() Result {
	metrics.Generations.WithLabelValues(a.provider.Name(), "failure").Inc()
	return Result{Success: false, Message: FailureMessage}
}
