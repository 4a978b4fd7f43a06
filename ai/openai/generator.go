package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docfind/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const answerSystemPrompt = `You are a study assistant answering questions about a document.
Answer using ONLY the supplied context. Every factual statement must be
supported by the context. If the context does not contain the answer,
say so plainly instead of guessing. Cite the page numbers you used.`

// Generator implements ai.AnswerGenerator using an OpenAI-compatible
// chat completion API.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newGenerator(config)
}

// GenerateAnswer produces an answer for the question from the supplied
// page-tagged context.
func (g *Generator) GenerateAnswer(ctx context.Context, req ai.AnswerRequest) (string, error) {
	g.logger.Debug("generating answer",
		"question_length", len(req.Question), "context_length", len(req.Context), "pages", req.Pages)

	pages := make([]string, len(req.Pages))
	for i, page := range req.Pages {
		pages[i] = fmt.Sprintf("%d", page)
	}

	userPrompt := fmt.Sprintf("Context (from pages %s):\n%s\n\nQuestion: %s",
		strings.Join(pages, ", "), req.Context, req.Question)

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(answerSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		g.logger.Error("answer generation failed", "err", err)
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
