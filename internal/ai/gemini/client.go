// Package gemini implements the generation backend on top of the Google
// GenAI API. One invocation performs exactly one outbound call; retry policy
// lives with the caller.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/applyforge/applyforge/internal/ai"
	"github.com/applyforge/applyforge/internal/logger"
	"github.com/applyforge/applyforge/internal/prompt"
)

const (
	defaultModel = "gemini-2.5-pro"

	defaultMaxLogLength = 200
)

// chatCreator abstracts genai.Chats so tests can inject fakes.
type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (g genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return g.chats.Create(ctx, model, config, history)
}

// Generator sends conversations to the Gemini API as chat sessions.
type Generator struct {
	chats     chatCreator
	model     string
	logger    *zap.Logger
	maxLogLen int
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxLogLength int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{
		chats:     genaiChats{chats: client.Chats},
		model:     model,
		logger:    log,
		maxLogLen: maxLogLength,
	}, nil
}

// Generate dispatches the conversation and returns the generated text.
// Failures map onto the ai taxonomy: transport and API errors become
// ErrUpstreamUnavailable, a MAX_TOKENS stop becomes ErrTruncatedOutput and a
// response without text becomes ErrEmptyResponse.
func (g *Generator) Generate(ctx context.Context, conv prompt.Conversation) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	system, history, last, err := splitConversation(conv)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	g.logger.Debug("gemini chat request",
		zap.String("model", g.model),
		zap.String("hint", conv.Hint),
		zap.Int("history_turns", len(history)),
		zap.Int("message_length", utf8.RuneCountInString(last)),
		zap.String("message_preview", logger.TruncateForLog(last, g.maxLogLen)),
	)

	chat, err := g.chats.Create(ctx, g.model, config, history)
	if err != nil {
		return "", fmt.Errorf("%w: create chat: %v", ai.ErrUpstreamUnavailable, err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ai.ErrUpstreamUnavailable, err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}

	g.logger.Debug("gemini chat response",
		zap.String("model", g.model),
		zap.String("hint", conv.Hint),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", logger.TruncateForLog(text, g.maxLogLen)),
	)

	return text, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// splitConversation maps the ordered dialogue onto the chat API shape:
// system turns merge into the system instruction, the final turn must be the
// user request and everything between becomes chat history.
func splitConversation(conv prompt.Conversation) (system string, history []*genai.Content, last string, err error) {
	if len(conv.Messages) == 0 {
		return "", nil, "", errors.New("conversation must not be empty")
	}

	final := conv.Messages[len(conv.Messages)-1]
	if final.Role != prompt.RoleUser {
		return "", nil, "", fmt.Errorf("conversation must end with a user turn, got %q", final.Role)
	}

	var systemParts []string
	for _, msg := range conv.Messages[:len(conv.Messages)-1] {
		switch msg.Role {
		case prompt.RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case prompt.RoleUser:
			history = append(history, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case prompt.RoleAssistant:
			history = append(history, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			return "", nil, "", fmt.Errorf("unsupported conversation role %q", msg.Role)
		}
	}

	return strings.Join(systemParts, "\n\n"), history, final.Content, nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ai.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return "", ai.ErrTruncatedOutput
	}

	var builder strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.ErrEmptyResponse
	}

	return output, nil
}
