package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/eternisai/firebase-notifier/internal/config"
)

const (
	ProviderGemini     = "gemini"
	defaultGeminiModel = "gemini-2.0-flash"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini generates copy with the Gemini API.
type Gemini struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGemini creates a Gemini provider using GEMINI_API_KEY.
func NewGemini(ctx context.Context, cfg config.AI) (*Gemini, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating Gemini API client: %w", err)
	}

	return newGemini(client.Models, cfg), nil
}

func newGemini(models contentGenerator, cfg config.AI) *Gemini {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		models:      models,
		model:       model,
		temperature: float32(cfg.Temperature),
	}
}

func (g *Gemini) Name() string { return ProviderGemini }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		CandidateCount:   1,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"messageCopy": {
					Type:        genai.TypeString,
					Description: "The generated message copy.",
				},
			},
			Required: []string{"messageCopy"},
		},
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
			},
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
			},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("error generating content: %w", err)
	}

	if len(result.Candidates) == 0 {
		return "", errors.New("no response candidates")
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return "", errors.New("no content in response candidate")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" && !part.Thought {
			parts = append(parts, part.Text)
		}
	}

	return decodeMessageCopy(strings.Join(parts, ""))
}
