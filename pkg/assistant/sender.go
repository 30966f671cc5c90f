// Package assistant is the chat collaborator of the site: a Sender that
// forwards questions to Gemini, and a Conversation that keeps the message
// list shown by the chat widget.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// MissingKeyReply is returned when no API key is configured.
	MissingKeyReply = "請配置 API KEY 以啟用 AI 助手功能。"
	// EmptyReply replaces an empty model answer.
	EmptyReply = "抱歉，我現在無法回答。"
	// ConnectionErrorReply is shown to web visitors when the model cannot
	// be reached.
	ConnectionErrorReply = "連線發生錯誤，請稍後再試。"
)

// SystemInstruction describes the center to the model.
const SystemInstruction = `You are the AI Assistant for the New Taipei City Hospital Human Research Protection Center (HRPC).
Your goal is to answer questions about the center, its SOPs, meetings, and contact info based on the provided context.
- Location: Sanchong Branch, 5th Floor, No. 3, Sec. 1, New Taipei Blvd.
- Phone: (02) 2982-9111 ext 3181
- Opening Hours: Mon-Fri 08:00 - 17:00
- Functions: Protect research subjects, manage ethics review, handle conflicts of interest.
- Be polite, professional, and concise. Answer in Traditional Chinese (Taiwan).`

// Sender sends one user message and returns the model's reply.
type Sender interface {
	Send(ctx context.Context, text string) (string, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, text string) (string, error)

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, text string) (string, error) { return f(ctx, text) }

// GeminiSender talks to the Gemini API through a single chat session,
// created on first use so the model keeps the conversation history.
type GeminiSender struct {
	apiKey string
	model  string
	logger *slog.Logger

	// sendMu serializes turns; a chat session keeps a single history.
	sendMu  sync.Mutex
	mu      sync.Mutex
	chat    *genai.Chat
	session string
}

// GeminiOption configures a GeminiSender.
type GeminiOption func(*GeminiSender)

// WithModel overrides DefaultModel.
func WithModel(model string) GeminiOption {
	return func(g *GeminiSender) {
		if model != "" {
			g.model = model
		}
	}
}

// WithSenderLogger sets the logger.
func WithSenderLogger(logger *slog.Logger) GeminiOption {
	return func(g *GeminiSender) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGeminiSender creates a sender for apiKey. An empty key is allowed:
// every Send then answers MissingKeyReply.
func NewGeminiSender(apiKey string, opts ...GeminiOption) *GeminiSender {
	g := &GeminiSender{apiKey: apiKey, model: DefaultModel, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the configured model.
func (g *GeminiSender) Model() string { return g.model }

// Configured reports whether an API key is set.
func (g *GeminiSender) Configured() bool { return g.apiKey != "" }

// Send implements Sender.
func (g *GeminiSender) Send(ctx context.Context, text string) (string, error) {
	if g.apiKey == "" {
		return MissingKeyReply, nil
	}
	g.sendMu.Lock()
	defer g.sendMu.Unlock()

	chat, err := g.chatSession(ctx)
	if err != nil {
		return "", err
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}
	reply := resp.Text()
	if reply == "" {
		return EmptyReply, nil
	}
	return reply, nil
}

func (g *GeminiSender) chatSession(ctx context.Context) (*genai.Chat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.chat != nil {
		return g.chat, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	chat, err := client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	g.chat = chat
	g.session = uuid.NewString()
	g.logger.Debug("chat session started", "session", g.session, "model", g.model)
	return chat, nil
}

// State implements introspection.Introspectable.
func (g *GeminiSender) State() any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return map[string]any{"model": g.model, "configured": g.apiKey != "", "session": g.session}
}

// ComponentType implements introspection.Component.
func (g *GeminiSender) ComponentType() string { return "gemini" }
