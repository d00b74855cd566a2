package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/eternisai/firebase-notifier/internal/config"
)

const ProviderOpenAI = "openai"

type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI generates copy with the chat completions API using structured output.
type OpenAI struct {
	completions chatCompleter
	model       string
	temperature float64
	schema      map[string]any
}

// NewOpenAI creates an OpenAI provider using OPENAI_API_KEY.
func NewOpenAI(cfg config.AI) (*OpenAI, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY not configured")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
	service := client.Chat.Completions

	return newOpenAI(&service, cfg)
}

func newOpenAI(completions chatCompleter, cfg config.AI) (*OpenAI, error) {
	schema, err := outputSchema()
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = string(shared.ChatModelGPT4oMini)
	}

	return &OpenAI{
		completions: completions,
		model:       model,
		temperature: cfg.Temperature,
		schema:      schema,
	}, nil
}

// outputSchema reflects Output into a strict JSON schema object.
func outputSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	raw, err := json.Marshal(reflector.Reflect(&Output{}))
	if err != nil {
		return nil, fmt.Errorf("marshal output schema: %w", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("unmarshal output schema: %w", err)
	}
	delete(schema, "$schema")
	delete(schema, "$id")
	return schema, nil
}

func (o *OpenAI) Name() string { return ProviderOpenAI }

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "notification_message",
					Schema: o.schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := o.completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion returned no choices")
	}

	return decodeMessageCopy(resp.Choices[0].Message.Content)
}
