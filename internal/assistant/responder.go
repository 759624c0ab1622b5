package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// SystemPrompt instructs the model to answer from the data context only.
const SystemPrompt = `You are a helpful weather assistant for the NextWeather Dashboard.
You have access to real-time weather data provided in the context.

GUIDELINES:
1. Answer questions accurately based ONLY on the provided context.
2. If the context doesn't contain the answer, say "I don't have that information in the current data."
3. Be concise and conversational.
4. Use Fahrenheit for temperature and mph for wind unless asked otherwise.
5. If asked about hazards, prioritize safety warnings.

CONTEXT STRUCTURE:
The user will provide a context block containing:
- Current Conditions
- Forecast Summary
- Active Hazards

Use this to answer the user's question.`

// historyTurns bounds how many earlier messages are sent to the model.
const historyTurns = 10

// Request is what a Responder answers.
type Request struct {
	Question string
	Context  string
	History  []Entry
}

// Responder produces a reply to a question about the data context.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
}

// OpenAI answers with an OpenAI-compatible chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI responder. baseURL overrides the API endpoint
// when set; an empty model uses gpt-4o-mini.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

// Respond sends the system prompt, the recent history and the question with
// its data context.
func (o *OpenAI) Respond(ctx context.Context, req Request) (string, error) {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
	}

	history := req.History
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	for _, e := range history {
		content, ok := text(e.Message)
		if !ok || content == "" {
			continue
		}
		role := openai.ChatMessageRoleUser
		if e.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: content})
	}

	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: "DATA CONTEXT:\n" + req.Context + "\n\nUSER QUESTION:\n" + req.Question,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Echo replies with the data context itself. It is used when no LLM is
// configured.
type Echo struct{}

// Respond returns the context verbatim.
func (Echo) Respond(_ context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Context) == "" {
		return "I don't have that information in the current data.", nil
	}
	return "Here is the latest data I have:\n\n" + req.Context, nil
}
