package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/hray3182/melgar/internal/dates"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4o-mini"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// TaskDraft is a task extracted from free text. It is not stored until the caller adds it.
type TaskDraft struct {
	Description string      `json:"description"`
	DueDate     *dates.Date `json:"-"`
	NextAction  string      `json:"next_action"`
	Priority    bool        `json:"priority"`
	RawResponse string      `json:"-"`
}

type draftResponse struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	NextAction  string `json:"next_action"`
	Priority    bool   `json:"priority"`
}

const systemPromptTemplate = `You turn a short note into a single task for a personal task tracker.

Today is %s (%s).

Rules:
1. description is a short imperative summary of the task. Never leave it empty.
2. due_date is YYYY-MM-DD. Resolve relative dates ("tomorrow", "next friday", "in 3 days") against today. Use an empty string when no date is mentioned.
3. next_action is the first concrete step, or an empty string when none is obvious.
4. priority is true only when the text says the task is urgent or important.`

func systemPrompt(today dates.Date) string {
	return fmt.Sprintf(systemPromptTemplate, today.String(), today.Weekday())
}

var taskSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"description": {
			"type": "string",
			"description": "Short summary of the task"
		},
		"due_date": {
			"type": "string",
			"description": "Due date as YYYY-MM-DD, or empty when none"
		},
		"next_action": {
			"type": "string",
			"description": "First concrete step, or empty"
		},
		"priority": {
			"type": "boolean",
			"description": "Whether the task is urgent"
		}
	},
	"required": ["description", "due_date", "next_action", "priority"],
	"additionalProperties": false
}`)

// ParseTask asks the model to turn text into a TaskDraft, resolving relative dates against today.
func (c *Client) ParseTask(ctx context.Context, text string, today dates.Date) (*TaskDraft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty task text")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(today),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "task",
				Schema: taskSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	content := resp.Choices[0].Message.Content
	return decodeDraft(content)
}

func decodeDraft(content string) (*TaskDraft, error) {
	var raw draftResponse
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	draft := &TaskDraft{
		Description: strings.TrimSpace(raw.Description),
		NextAction:  strings.TrimSpace(raw.NextAction),
		Priority:    raw.Priority,
		RawResponse: content,
	}
	if draft.Description == "" {
		return nil, fmt.Errorf("AI response has no description")
	}
	// A date the model got wrong is dropped rather than failing the whole draft.
	if due, err := dates.Parse(raw.DueDate); err == nil {
		draft.DueDate = &due
	}
	return draft, nil
}
