package editor

import (
	"context"
	"log/slog"

	"github.com/eternisai/firebase-notifier/internal/event"
	"github.com/eternisai/firebase-notifier/internal/generator"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/notification"
)

// Generator is the AI server action used to produce body copy.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) generator.Result
}

// Editor captures template changes, submissions and generation requests.
type Editor struct {
	generator Generator
	logger    *logger.Logger
}

// New creates an editor backed by gen.
func New(gen Generator, logger *logger.Logger) *Editor {
	return &Editor{
		generator: gen,
		logger:    logger.WithComponent("editor"),
	}
}

// Change returns the live template for the current values. Every change
// propagates the full set of values.
func (e *Editor) Change(values Values) notification.Data {
	return values.Data()
}

// Submit validates values for sending. On success it returns the data to
// hand to the host; otherwise the field errors and nothing is sent.
func (e *Editor) Submit(values Values) (notification.Data, FieldErrors) {
	if errs := values.Validate(); !errs.OK() {
		return notification.Data{}, errs
	}
	return values.Data(), nil
}

// GenerateOutcome is the result of a generation request.
type GenerateOutcome struct {
	// Values are the form values after the request. Body is replaced on success only.
	Values Values
	// Errors holds local validation errors; the request was not sent when non-empty.
	Errors FieldErrors
	// Generated reports that Body was replaced and is now validated.
	Generated bool
	// Events carries notices for the user, e.g. a failure toast.
	Events []event.Event
}

// Generate asks the generator for body copy. Validation failures keep the
// request local; generator failures leave the body unchanged.
func (e *Editor) Generate(ctx context.Context, values Values) GenerateOutcome {
	out := GenerateOutcome{Values: values}

	if errs := values.ValidateForGenerate(); !errs.OK() {
		out.Errors = errs
		return out
	}

	result := e.generator.Generate(ctx, generator.Request{
		LayoutTemplate: values.LayoutTemplate,
		Tone:           values.Tone,
	})

	if !result.Success {
		e.logger.WithContext(ctx).Warn("message generation failed",
			slog.String("message", result.Message))
		out.Events = append(out.Events, event.Error(event.GenerationFailed, "Generation Failed", result.Message))
		return out
	}

	out.Values.Body = result.Message
	out.Generated = true
	// Only the body is revalidated; other fields keep whatever state the form shows.
	out.Errors = FieldErrors{}
	if msg, bad := out.Values.Validate()[FieldBody]; bad {
		out.Errors[FieldBody] = msg
	}
	return out
}
