package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
)

// Generator - текстовая модель: промпт на входе, свободный текст на выходе
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMGenerator адаптирует gollem.LLMClient к Generator
type LLMGenerator struct {
	client gollem.LLMClient
}

// NewLLMGenerator создает генератор поверх готового LLM-клиента
func NewLLMGenerator(client gollem.LLMClient) *LLMGenerator {
	return &LLMGenerator{client: client}
}

// NewGeminiGenerator создает генератор на Gemini (Vertex AI).
// Возвращает nil без ошибки, если проект не задан: функции ИИ отключены.
func NewGeminiGenerator(ctx context.Context, projectID, location string) (Generator, error) {
	if projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewLLMGenerator(client), nil
}

// Generate открывает новую сессию и возвращает склеенный ответ модели
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := g.client.NewSession(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create LLM session: %w", err)
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}
